package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "erp-ledger-test"
	testUserID = "user-1"
)

var accountant = domain.Actor{UserID: testUserID, Role: domain.RoleAccountant}

// handlerSuite wires the real router, AuthMiddleware included, around mocked services.
type handlerSuite struct {
	suite.Suite
	router        *gin.Engine
	accounts      *MockAccountService
	years         *MockFinancialYearService
	journal       *MockJournalService
	reporting     *MockReportingService
	defaultBearer string
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.accounts = new(MockAccountService)
	s.years = new(MockFinancialYearService)
	s.journal = new(MockJournalService)
	s.reporting = new(MockReportingService)

	cfg := &config.Config{JWTSecret: testSecret, JWTIssuer: testIssuer, IsProduction: true}
	services := &portssvc.ServiceContainer{
		Account:       s.accounts,
		FinancialYear: s.years,
		Journal:       s.journal,
		Reporting:     s.reporting,
	}

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(s.router, cfg, services, nil)
	s.defaultBearer = s.generateTestToken(testUserID, "accountant")
}

func (s *handlerSuite) TearDownTest() {
	s.accounts.AssertExpectations(s.T())
	s.years.AssertExpectations(s.T())
	s.journal.AssertExpectations(s.T())
	s.reporting.AssertExpectations(s.T())
}

// generateTestToken signs a JWT the way the identity provider would.
func (s *handlerSuite) generateTestToken(userID, role string) string {
	claims := middleware.LedgerClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (s *handlerSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	return s.doWithToken(method, url, body, s.defaultBearer)
}

func (s *handlerSuite) doWithToken(method, url string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			s.Require().NoError(json.NewEncoder(&buf).Encode(body))
		}
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func datePtr(s string) *time.Time {
	t, _ := time.Parse(dto.DateLayout, s)
	return &t
}

func sameDate(want string) func(*time.Time) bool {
	return func(t *time.Time) bool {
		return t != nil && t.Format(dto.DateLayout) == want
	}
}
