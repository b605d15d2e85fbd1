package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	reportingService portssvc.ReportingSvcFacade
	journalService   portssvc.JournalSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.ReportingSvcFacade, js portssvc.JournalSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:   as,
		reportingService: rs,
		journalService:   js,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, reportingService portssvc.ReportingSvcFacade, journalService portssvc.JournalSvcFacade) {
	h := newAccountHandler(accountService, reportingService, journalService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/by-code/:code", h.getAccountByCode)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.POST("/:accountID/deactivate", h.deactivateAccount)
		accounts.POST("/:accountID/reactivate", h.reactivateAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/items", h.listAccountItems)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts. Codes are unique.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Account code already exists"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("category", string(req.Category)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, logger, "Failed to create account", err)
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   status query string false "active (default) or all"
// @Param   category query string false "Filter by category"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), actor, params.Filter())
	if err != nil {
		respondError(c, logger, "Failed to list accounts", err)
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountService.GetAccountByID(c.Request.Context(), actor, accountID)
	if err != nil {
		respondError(c, logger, "Failed to retrieve account", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/by-code/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), actor, code)
	if err != nil {
		respondError(c, logger.With(slog.String("code", code)), "Failed to retrieve account", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes name, description or category. The category is locked once journal items reference the account.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 422 {object} dto.ErrorResponse "Category locked"
// @Security BearerAuth
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	logger.Info("Received request to update account")

	account, err := h.accountService.UpdateAccount(c.Request.Context(), actor, accountID, req)
	if err != nil {
		respondError(c, logger, "Failed to update account", err)
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Hard-deletes an account that no journal item references
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 422 {object} dto.ErrorResponse "Account is referenced by journal items"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	if err := h.accountService.DeleteAccount(c.Request.Context(), actor, accountID); err != nil {
		respondError(c, logger, "Failed to delete account", err)
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Inactive accounts keep their history but reject new journal items
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/deactivate [post]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	h.toggleAccount(c, false)
}

// reactivateAccount godoc
// @Summary Reactivate an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/reactivate [post]
func (h *accountHandler) reactivateAccount(c *gin.Context) {
	h.toggleAccount(c, true)
}

func (h *accountHandler) toggleAccount(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID), slog.Bool("active", active))
	toggle := h.accountService.DeactivateAccount
	if active {
		toggle = h.accountService.ReactivateAccount
	}
	account, err := toggle(c.Request.Context(), actor, accountID)
	if err != nil {
		respondError(c, logger, "Failed to change account status", err)
		return
	}

	logger.Info("Account status changed")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get the balance of an account
// @Description Sums posted journal items up to asOf (inclusive). The balance is positive on the account's normal side.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	asOf, err := dto.ParseOptionalDate("asOf", params.AsOf)
	if err != nil {
		respondError(c, logger, "Invalid asOf", err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID), slog.String("as_of", params.AsOf))
	balance, err := h.reportingService.BalanceOf(c.Request.Context(), actor, accountID, asOf)
	if err != nil {
		respondError(c, logger, "Failed to compute account balance", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// listAccountItems godoc
// @Summary List posted lines of an account
// @Description Pages through posted journal items of the account in date order with a running balance
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.AccountLedgerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/items [get]
func (h *accountHandler) listAccountItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListAccountItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	lines, next, err := h.journalService.ListAccountItems(c.Request.Context(), actor, accountID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, "Failed to list account items", err)
		return
	}

	c.JSON(http.StatusOK, dto.AccountLedgerResponse{AccountID: accountID, Lines: lines, NextToken: next})
}
