package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists every account with posted activity up to asOf. Omitting asOf covers all time.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
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

	logger = logger.With(slog.String("as_of", params.AsOf))
	logger.Info("Received request to generate trial balance report")

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), actor, asOf)
	if err != nil {
		respondError(c, logger, "Failed to generate trial balance report", err)
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(tb.Rows)), slog.Bool("balanced", tb.Balanced))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Nets revenue and expense activity between from and to, both inclusive
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	from, err := dto.ParseOptionalDate("from", params.From)
	if err != nil {
		respondError(c, logger, "Invalid from date", err)
		return
	}
	to, err := dto.ParseOptionalDate("to", params.To)
	if err != nil {
		respondError(c, logger, "Invalid to date", err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("from", params.From), slog.String("to", params.To))
	logger.Info("Received request to generate profit and loss report")

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), actor, from, to)
	if err != nil {
		respondError(c, logger, "Failed to generate profit and loss report", err)
		return
	}

	logger.Info("Profit and loss report generated successfully", slog.String("net_profit", report.NetProfit.String()))
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity as of a date. Unclosed revenue and expense appear as current earnings.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
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

	logger = logger.With(slog.String("as_of", params.AsOf))
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), actor, asOf)
	if err != nil {
		respondError(c, logger, "Failed to generate balance sheet report", err)
		return
	}

	logger.Info("Balance sheet report generated successfully")
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}
