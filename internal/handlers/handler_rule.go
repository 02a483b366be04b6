package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/apperrors"
	portssvc "github.com/mbilaljunaid/nexusai-erp-sub009/internal/core/ports/services"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/dto"
	"github.com/mbilaljunaid/nexusai-erp-sub009/internal/middleware"
)

// ruleHandler handles HTTP requests for accounting configuration.
type ruleHandler struct {
	ruleSvc portssvc.RuleSvcFacade
}

func newRuleHandler(ruleSvc portssvc.RuleSvcFacade) *ruleHandler {
	return &ruleHandler{ruleSvc: ruleSvc}
}

// registerRuleRoutes wires the configuration endpoints into the router group.
func registerRuleRoutes(rg *gin.RouterGroup, ruleSvc portssvc.RuleSvcFacade) {
	h := newRuleHandler(ruleSvc)

	accounting := rg.Group("/accounting")
	{
		accounting.POST("/rules", h.createRule)
		accounting.GET("/rules", h.listRules)
		accounting.POST("/mapping-sets", h.createMappingSet)
		accounting.GET("/mapping-sets", h.listMappingSets)
	}
}

// createRule godoc
// @Summary Configure an accounting rule
// @Tags configuration
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Accounting rule"
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid rule"
// @Failure 409 {object} map[string]string "Rule already exists"
// @Failure 500 {object} map[string]string "Creation failed"
// @Router /accounting/rules [post]
func (h *ruleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.ruleSvc.CreateRule(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Rule already exists for this code and event class"})
		default:
			logger.Error("Failed to create rule", slog.String("error", err.Error()), slog.String("rule_code", req.RuleCode))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

// listRules godoc
// @Summary List configured accounting rules
// @Tags configuration
// @Produce  json
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   offset query int false "Offset"
// @Success 200 {array} dto.RuleResponse
// @Failure 500 {object} map[string]string "Listing failed"
// @Router /accounting/rules [get]
func (h *ruleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rules, err := h.ruleSvc.ListRules(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rules"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRuleResponses(rules))
}

// createMappingSet godoc
// @Summary Configure a mapping set with its values
// @Tags configuration
// @Accept  json
// @Produce  json
// @Param   mappingSet body dto.CreateMappingSetRequest true "Mapping set"
// @Success 201 {object} dto.MappingSetResponse
// @Failure 400 {object} map[string]string "Invalid mapping set"
// @Failure 409 {object} map[string]string "Mapping set already exists"
// @Failure 500 {object} map[string]string "Creation failed"
// @Router /accounting/mapping-sets [post]
func (h *ruleHandler) createMappingSet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMappingSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createMappingSet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	set, err := h.ruleSvc.CreateMappingSet(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Mapping set already exists"})
		default:
			logger.Error("Failed to create mapping set", slog.String("error", err.Error()), slog.String("name", req.Name))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create mapping set"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToMappingSetResponse(set))
}

// listMappingSets godoc
// @Summary List mapping sets
// @Tags configuration
// @Produce  json
// @Success 200 {array} dto.MappingSetResponse
// @Failure 500 {object} map[string]string "Listing failed"
// @Router /accounting/mapping-sets [get]
func (h *ruleHandler) listMappingSets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sets, err := h.ruleSvc.ListMappingSets(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list mapping sets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list mapping sets"})
		return
	}

	responses := make([]dto.MappingSetResponse, len(sets))
	for i := range sets {
		responses[i] = dto.ToMappingSetResponse(&sets[i])
	}
	c.JSON(http.StatusOK, responses)
}
