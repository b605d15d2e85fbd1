package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries and their lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.updateDraft)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/cancel", h.cancelEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Creates a DRAFT entry in the financial year covering entryDate. Items may be unbalanced until posting.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Referenced account not found"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create journal entry", slog.String("entry_date", req.EntryDate), slog.Int("item_count", len(req.Items)))
	entry, err := h.journalService.CreateEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, logger, "Failed to create journal entry", err)
		return
	}

	logger.Info("Journal entry created", slog.String("journal_entry_id", entry.JournalEntryID), slog.String("reference", entry.Reference))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first using token based pagination
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "DRAFT, POSTED or CANCELLED"
// @Param   financialYearID query string false "Restrict to one financial year"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entries, next, err := h.journalService.ListEntries(c.Request.Context(), actor, params.ToDomain())
	if err != nil {
		respondError(c, logger, "Failed to list journal entries", err)
		return
	}

	res := dto.ListJournalEntriesResponse{Entries: make([]dto.JournalEntryResponse, len(entries)), NextToken: next}
	for i := range entries {
		res.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, res)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), actor, entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("journal_entry_id", entryID)), "Failed to retrieve journal entry", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateDraft godoc
// @Summary Update a draft journal entry
// @Description Replaces date, narration or the full item list of a DRAFT entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to replace"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 422 {object} dto.ErrorResponse "Entry is no longer a draft"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [patch]
func (h *journalHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", entryID))
	entry, err := h.journalService.UpdateDraft(c.Request.Context(), actor, entryID, req)
	if err != nil {
		respondError(c, logger, "Failed to update journal entry", err)
		return
	}

	logger.Info("Draft journal entry updated")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Param   entryID path string true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 422 {object} dto.ErrorResponse "Entry is no longer a draft"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", entryID))
	if err := h.journalService.DeleteEntry(c.Request.Context(), actor, entryID); err != nil {
		respondError(c, logger, "Failed to delete journal entry", err)
		return
	}

	logger.Info("Draft journal entry deleted")
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Validates balance and period, then moves the entry to POSTED. Posted items count towards every balance.
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update conflict"
// @Failure 422 {object} dto.ErrorResponse "Unbalanced entry, empty entry or closed period"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", entryID))
	logger.Info("Received request to post journal entry")

	entry, err := h.journalService.PostEntry(c.Request.Context(), actor, entryID)
	if err != nil {
		respondError(c, logger, "Failed to post journal entry", err)
		return
	}

	logger.Info("Journal entry posted", slog.String("reference", entry.Reference))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// cancelEntry godoc
// @Summary Cancel a posted journal entry
// @Description Marks a POSTED entry CANCELLED. Its items stop counting towards balances.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Param   cancel body dto.CancelJournalEntryRequest true "Cancellation reason"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Reason missing"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 422 {object} dto.ErrorResponse "Entry is not posted or its period is closed"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/cancel [post]
func (h *journalHandler) cancelEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.CancelJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", entryID))
	entry, err := h.journalService.CancelEntry(c.Request.Context(), actor, entryID, req.Reason)
	if err != nil {
		respondError(c, logger, "Failed to cancel journal entry", err)
		return
	}

	logger.Info("Journal entry cancelled", slog.String("reference", entry.Reference))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
