package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/dto"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

// accountingHandler handles HTTP requests for the accounting engine.
type accountingHandler struct {
	accountingSvc portssvc.AccountingSvcFacade
}

func newAccountingHandler(accountingSvc portssvc.AccountingSvcFacade) *accountingHandler {
	return &accountingHandler{accountingSvc: accountingSvc}
}

// registerAccountingRoutes wires the accounting endpoints into the router group.
func registerAccountingRoutes(rg *gin.RouterGroup, accountingSvc portssvc.AccountingSvcFacade) {
	h := newAccountingHandler(accountingSvc)

	accounting := rg.Group("/accounting")
	{
		accounting.POST("/events", h.createAccounting)
		accounting.GET("/journals", h.listJournals)
		accounting.GET("/journals/:journalID", h.getJournal)
		accounting.POST("/journals/:journalID/post", h.postToGL)
	}
}

// createAccounting godoc
// @Summary Create accounting for a business event
// @Description Turns a business event into a balanced draft subledger journal
// @Tags accounting
// @Accept  json
// @Produce  json
// @Param   event body dto.CreateAccountingEventRequest true "Business event"
// @Success 201 {object} dto.JournalResponse "Created journal with lines"
// @Success 204 "No accounting template for the event class"
// @Failure 400 {object} map[string]string "Invalid event"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Accounting failed"
// @Router /accounting/events [post]
func (h *accountingHandler) createAccounting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccounting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	event, err := req.ToDomainEvent()
	if err != nil {
		logger.Warn("Invalid accounting event", slog.String("error", err.Error()), slog.String("event_class", req.EventClass))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	header, err := h.accountingSvc.CreateAccounting(c.Request.Context(), event, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create accounting", slog.String("error", err.Error()), slog.String("event_class", req.EventClass))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create accounting"})
		return
	}
	if header == nil {
		// Event class without a template: accounted as a no-op.
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalResponse(header))
}

// postToGL godoc
// @Summary Transfer a journal to the general ledger
// @Description Finalizes a draft journal and creates the corresponding GL journal
// @Tags accounting
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} map[string]string "GL journal reference"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal already transferred"
// @Failure 500 {object} map[string]string "Transfer failed"
// @Router /accounting/journals/{journalID}/post [post]
func (h *accountingHandler) postToGL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	glJournalID, err := h.accountingSvc.PostToGL(c.Request.Context(), journalID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyTransferred):
			c.JSON(http.StatusConflict, gin.H{"error": "Journal already transferred"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		default:
			logger.Error("Failed to transfer journal to GL", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer journal"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"glJournalID": glJournalID})
}

// getJournal godoc
// @Summary Get a journal with its lines
// @Tags accounting
// @Produce  json
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Retrieval failed"
// @Router /accounting/journals/{journalID} [get]
func (h *accountingHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	header, err := h.accountingSvc.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		logger.Error("Failed to get journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(header))
}

// listJournals godoc
// @Summary List journals for a ledger
// @Tags accounting
// @Produce  json
// @Param   ledgerID query string true "Ledger ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   offset query int false "Offset"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Missing ledger ID"
// @Failure 500 {object} map[string]string "Listing failed"
// @Router /accounting/journals [get]
func (h *accountingHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ledgerID := c.Query("ledgerID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	headers, err := h.accountingSvc.ListJournals(c.Request.Context(), ledgerID, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list journals", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journals"})
		return
	}

	resp := dto.ListJournalsResponse{Journals: make([]dto.JournalResponse, len(headers))}
	for i := range headers {
		resp.Journals[i] = dto.ToJournalResponse(&headers[i])
	}
	c.JSON(http.StatusOK, resp)
}
