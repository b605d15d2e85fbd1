package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	handlerSuite
}

func (s *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Category: domain.Asset}
	created := &domain.Account{AccountID: uuid.NewString(), Code: "1000", Name: "Cash", Category: domain.Asset, IsActive: true}
	s.accounts.On("CreateAccount", mock.Anything, accountant, req).Return(created, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", req)

	s.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(created.AccountID, body.AccountID)
	s.Equal(domain.Debit, body.NormalSide)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_DuplicateCodeIsConflict() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", Category: domain.Asset}
	s.accounts.On("CreateAccount", mock.Anything, accountant, req).
		Return(nil, fmt.Errorf("%w: 1000", apperrors.ErrDuplicateCode)).Once()

	w := s.do(http.MethodPost, "/api/v1/accounts", req)

	s.Equal(http.StatusConflict, w.Code)
	body := s.decodeError(w)
	s.Equal("invariant_violation", body.Kind)
	s.False(body.Retryable)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_BindingErrors() {
	tests := []struct {
		name string
		body string
	}{
		{"unknown category", `{"code":"1000","name":"Cash","category":"GOODWILL"}`},
		{"missing code", `{"name":"Cash","category":"ASSET"}`},
		{"malformed json", `{"code":`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/v1/accounts", tt.body)
			s.Equal(http.StatusBadRequest, w.Code)
			s.Equal("validation", s.decodeError(w).Kind)
		})
	}
	s.accounts.AssertNotCalled(s.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountHandlerTestSuite) TestAuthentication() {
	w := s.doWithToken(http.MethodGet, "/api/v1/accounts", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.doWithToken(http.MethodGet, "/api/v1/accounts", nil, s.generateTestToken(testUserID, "owner"))
	s.Equal(http.StatusForbidden, w.Code)

	w = s.doWithToken(http.MethodGet, "/api/v1/accounts", nil, "not-a-jwt")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AccountHandlerTestSuite) TestListAccounts_PassesFilter() {
	viewer := s.generateTestToken("viewer-1", "readonly")
	s.accounts.On("ListAccounts", mock.Anything, domain.Actor{UserID: "viewer-1", Role: domain.RoleReadOnly},
		mock.MatchedBy(func(f domain.AccountFilter) bool {
			return f.Status == domain.AccountsAll && f.Category != nil && *f.Category == domain.Expense
		})).
		Return([]domain.Account{{AccountID: "a1", Code: "5000", Category: domain.Expense}}, nil).Once()

	w := s.doWithToken(http.MethodGet, "/api/v1/accounts?status=all&category=EXPENSE", nil, viewer)

	s.Equal(http.StatusOK, w.Code)
	var body dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Len(body.Accounts, 1)
}

func (s *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	s.accounts.On("GetAccountByID", mock.Anything, accountant, "missing").
		Return(nil, apperrors.NewNotFoundError("account missing not found")).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/missing", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("not_found", s.decodeError(w).Kind)
}

func (s *AccountHandlerTestSuite) TestGetAccountByCode() {
	s.accounts.On("GetAccountByCode", mock.Anything, accountant, "4000").
		Return(&domain.Account{AccountID: "a4", Code: "4000", Category: domain.Revenue}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/by-code/4000", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *AccountHandlerTestSuite) TestUpdateAccount_CategoryLocked() {
	liability := domain.Liability
	s.accounts.On("UpdateAccount", mock.Anything, accountant, "a1", dto.UpdateAccountRequest{Category: &liability}).
		Return(nil, apperrors.ErrCategoryLocked).Once()

	w := s.do(http.MethodPatch, "/api/v1/accounts/a1", `{"category":"LIABILITY"}`)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *AccountHandlerTestSuite) TestDeleteAccount() {
	s.accounts.On("DeleteAccount", mock.Anything, accountant, "a1").Return(nil).Once()
	s.accounts.On("DeleteAccount", mock.Anything, accountant, "a2").Return(apperrors.ErrReferencedAccount).Once()

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/accounts/a1", nil).Code)
	s.Equal(http.StatusUnprocessableEntity, s.do(http.MethodDelete, "/api/v1/accounts/a2", nil).Code)
}

func (s *AccountHandlerTestSuite) TestDeactivateAndReactivate() {
	s.accounts.On("DeactivateAccount", mock.Anything, accountant, "a1").
		Return(&domain.Account{AccountID: "a1", IsActive: false}, nil).Once()
	s.accounts.On("ReactivateAccount", mock.Anything, accountant, "a1").
		Return(&domain.Account{AccountID: "a1", IsActive: true}, nil).Once()

	var body dto.AccountResponse
	w := s.do(http.MethodPost, "/api/v1/accounts/a1/deactivate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.False(body.IsActive)

	w = s.do(http.MethodPost, "/api/v1/accounts/a1/reactivate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.True(body.IsActive)
}

func (s *AccountHandlerTestSuite) TestAccountBalance() {
	s.reporting.On("BalanceOf", mock.Anything, accountant, "a1", mock.MatchedBy(sameDate("2024-05-31"))).
		Return(&domain.AccountBalance{
			AccountID: "a1", Code: "1000", Category: domain.Asset, AsOf: datePtr("2024-05-31"),
			Debit: decimal.NewFromInt(1000), Credit: decimal.RequireFromString("120.25"),
			Balance: decimal.RequireFromString("879.75"),
		}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/a1/balance?asOf=2024-05-31", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var body dto.AccountBalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.True(decimal.RequireFromString("879.75").Equal(body.Balance))
	s.Equal("2024-05-31", body.AsOf)
}

func (s *AccountHandlerTestSuite) TestAccountBalance_AllTimeAndBadDate() {
	s.reporting.On("BalanceOf", mock.Anything, accountant, "a1", (*time.Time)(nil)).
		Return(&domain.AccountBalance{AccountID: "a1"}, nil).Once()

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/accounts/a1/balance", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/accounts/a1/balance?asOf=31-05-2024", nil).Code)
}

func (s *AccountHandlerTestSuite) TestListAccountItems() {
	next := "token-2"
	s.journal.On("ListAccountItems", mock.Anything, accountant, "a1", 2, (*string)(nil)).
		Return([]domain.AccountLedgerLine{{JournalItemID: "i1"}, {JournalItemID: "i2"}}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/a1/items?limit=2", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var body dto.AccountLedgerResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Len(body.Lines, 2)
	s.Require().NotNil(body.NextToken)
	s.Equal(next, *body.NextToken)
}

func (s *AccountHandlerTestSuite) TestInternalErrorsAreNotLeaked() {
	s.accounts.On("GetAccountByID", mock.Anything, accountant, "a1").
		Return(nil, errors.New("pq: connection refused to 10.0.0.3")).Once()

	w := s.do(http.MethodGet, "/api/v1/accounts/a1", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	body := s.decodeError(w)
	s.Equal("Failed to retrieve account", body.Error)
	s.Equal("internal", body.Kind)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
