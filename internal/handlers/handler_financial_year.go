package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// financialYearHandler handles HTTP requests related to financial years.
type financialYearHandler struct {
	yearService portssvc.FinancialYearSvcFacade
}

func newFinancialYearHandler(ys portssvc.FinancialYearSvcFacade) *financialYearHandler {
	return &financialYearHandler{yearService: ys}
}

// registerFinancialYearRoutes registers routes related to financial years.
func registerFinancialYearRoutes(rg *gin.RouterGroup, yearService portssvc.FinancialYearSvcFacade) {
	h := newFinancialYearHandler(yearService)

	years := rg.Group("/financial-years")
	{
		years.POST("", h.createYear)
		years.GET("", h.listYears)
		years.GET("/active", h.getActiveYear)
		years.GET("/:yearID", h.getYear)
		years.POST("/:yearID/activate", h.activateYear)
		years.POST("/:yearID/unlock", h.unlockYear)
		years.POST("/:yearID/lock", h.lockYear)
	}
}

// createYear godoc
// @Summary Create a financial year
// @Description Creates an inactive financial year covering [startDate, endDate). Years may not overlap.
// @Tags financial-years
// @Accept  json
// @Produce  json
// @Param   year body dto.CreateFinancialYearRequest true "Financial year"
// @Success 201 {object} dto.FinancialYearResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Overlapping period or duplicate name"
// @Security BearerAuth
// @Router /financial-years [post]
func (h *financialYearHandler) createYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFinancialYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create financial year", slog.String("name", req.Name), slog.String("start", req.StartDate), slog.String("end", req.EndDate))
	year, err := h.yearService.CreateYear(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, logger, "Failed to create financial year", err)
		return
	}

	logger.Info("Financial year created", slog.String("financial_year_id", year.FinancialYearID))
	c.JSON(http.StatusCreated, dto.ToFinancialYearResponse(year))
}

// listYears godoc
// @Summary List financial years
// @Description Lists all financial years ordered by start date
// @Tags financial-years
// @Produce  json
// @Success 200 {object} dto.ListFinancialYearsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /financial-years [get]
func (h *financialYearHandler) listYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	years, err := h.yearService.ListYears(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, "Failed to list financial years", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListFinancialYearsResponse(years))
}

// getActiveYear godoc
// @Summary Get the active financial year
// @Tags financial-years
// @Produce  json
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 404 {object} dto.ErrorResponse "No year is active"
// @Security BearerAuth
// @Router /financial-years/active [get]
func (h *financialYearHandler) getActiveYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	year, err := h.yearService.GetActiveYear(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, "Failed to retrieve active financial year", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialYearResponse(year))
}

// getYear godoc
// @Summary Get a financial year
// @Tags financial-years
// @Produce  json
// @Param   yearID path string true "Financial year ID"
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 404 {object} dto.ErrorResponse "Financial year not found"
// @Security BearerAuth
// @Router /financial-years/{yearID} [get]
func (h *financialYearHandler) getYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID := c.Param("yearID")
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	year, err := h.yearService.GetYear(c.Request.Context(), actor, yearID)
	if err != nil {
		respondError(c, logger.With(slog.String("financial_year_id", yearID)), "Failed to retrieve financial year", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialYearResponse(year))
}

// activateYear godoc
// @Summary Activate a financial year
// @Description Makes the year the single active year. Concurrent activations may fail with a retryable conflict.
// @Tags financial-years
// @Produce  json
// @Param   yearID path string true "Financial year ID"
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 404 {object} dto.ErrorResponse "Financial year not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update conflict"
// @Failure 422 {object} dto.ErrorResponse "Year has ended"
// @Security BearerAuth
// @Router /financial-years/{yearID}/activate [post]
func (h *financialYearHandler) activateYear(c *gin.Context) {
	h.transition(c, "activate", h.yearService.ActivateYear)
}

// unlockYear godoc
// @Summary Open a non-active year for historical postings
// @Tags financial-years
// @Produce  json
// @Param   yearID path string true "Financial year ID"
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 400 {object} dto.ErrorResponse "Historical postings are disabled"
// @Failure 404 {object} dto.ErrorResponse "Financial year not found"
// @Security BearerAuth
// @Router /financial-years/{yearID}/unlock [post]
func (h *financialYearHandler) unlockYear(c *gin.Context) {
	h.transition(c, "unlock", h.yearService.UnlockYear)
}

// lockYear godoc
// @Summary Close a year for historical postings
// @Tags financial-years
// @Produce  json
// @Param   yearID path string true "Financial year ID"
// @Success 200 {object} dto.FinancialYearResponse
// @Failure 404 {object} dto.ErrorResponse "Financial year not found"
// @Security BearerAuth
// @Router /financial-years/{yearID}/lock [post]
func (h *financialYearHandler) lockYear(c *gin.Context) {
	h.transition(c, "lock", h.yearService.LockYear)
}

type yearTransition func(ctx context.Context, actor domain.Actor, yearID string) (*domain.FinancialYear, error)

func (h *financialYearHandler) transition(c *gin.Context, action string, fn yearTransition) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID := c.Param("yearID")
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("financial_year_id", yearID), slog.String("action", action))
	logger.Info("Received financial year transition request")

	year, err := fn(c.Request.Context(), actor, yearID)
	if err != nil {
		respondError(c, logger, "Failed to "+action+" financial year", err)
		return
	}

	logger.Info("Financial year transition applied")
	c.JSON(http.StatusOK, dto.ToFinancialYearResponse(year))
}
