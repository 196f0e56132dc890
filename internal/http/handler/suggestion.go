package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/dto"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/middleware"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

type SuggestionHandler struct {
	suggestionService service.SuggestionService
}

func NewSuggestionHandler(suggestionService service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// List returns the filtered suggestions together with project-wide stats.
func (h *SuggestionHandler) List(c *gin.Context) {
	var q dto.SuggestionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query")
		return
	}

	ctx := c.Request.Context()
	projectID := middleware.ProjectID(c)

	items, err := h.suggestionService.List(ctx, projectID, q.Filter())
	if err != nil {
		respondError(c, err, "list suggestions")
		return
	}
	stats, err := h.suggestionService.Stats(ctx, projectID)
	if err != nil {
		respondError(c, err, "compute suggestion stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToListSuggestionsResponse(items, stats))
}

func (h *SuggestionHandler) Stats(c *gin.Context) {
	stats, err := h.suggestionService.Stats(c.Request.Context(), middleware.ProjectID(c))
	if err != nil {
		respondError(c, err, "compute suggestion stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SuggestionHandler) Approve(c *gin.Context) {
	suggestionID, ok := suggestionIDParam(c)
	if !ok {
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{SuggestionID: &suggestionID})
	res, err := h.suggestionService.Approve(ctx, middleware.ProjectID(c), suggestionID)
	if err != nil {
		respondError(c, err, "approve suggestion")
		return
	}

	c.JSON(http.StatusOK, dto.ApproveResponse{
		Suggestion:   dto.ToSuggestionResponse(res.Suggestion),
		Relationship: dto.ToRelationshipResponse(res.Relationship),
	})
}

func (h *SuggestionHandler) Reject(c *gin.Context) {
	suggestionID, ok := suggestionIDParam(c)
	if !ok {
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{SuggestionID: &suggestionID})
	if err := h.suggestionService.Reject(ctx, middleware.ProjectID(c), suggestionID); err != nil {
		respondError(c, err, "reject suggestion")
		return
	}

	slog.InfoContext(ctx, "suggestion rejected")
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

func (h *SuggestionHandler) Dismiss(c *gin.Context) {
	suggestionID, ok := suggestionIDParam(c)
	if !ok {
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{SuggestionID: &suggestionID})
	sg, err := h.suggestionService.Dismiss(ctx, middleware.ProjectID(c), suggestionID)
	if err != nil {
		respondError(c, err, "dismiss suggestion")
		return
	}

	slog.InfoContext(ctx, "suggestion dismissed")
	c.JSON(http.StatusOK, dto.ToSuggestionResponse(sg))
}

// Observe merges one observation synchronously. 201 when it created a
// suggestion, 200 otherwise.
func (h *SuggestionHandler) Observe(c *gin.Context) {
	var req dto.ObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request")
		return
	}

	res, err := h.suggestionService.MergeObservation(c.Request.Context(), req.ToObservation(middleware.ProjectID(c)))
	if err != nil {
		respondError(c, err, "merge observation")
		return
	}

	status := http.StatusOK
	if res.Outcome == service.MergeOutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, dto.MergeResponse{
		Outcome:    string(res.Outcome),
		Suggestion: dto.ToSuggestionResponse(res.Suggestion),
	})
}

func suggestionIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("suggestion_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion_id"})
		return 0, false
	}
	return id, true
}
