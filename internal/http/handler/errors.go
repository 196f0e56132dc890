package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/graph"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

// respondError maps service and graph sentinels onto status codes. Anything
// unrecognised is logged and reported as a 500 with a generic message.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrSuggestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
	case errors.Is(err, graph.ErrNodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSuggestionDismissed),
		errors.Is(err, service.ErrSuggestionApproved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidObservation),
		errors.Is(err, graph.ErrInvalidDepth):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		slog.WarnContext(c.Request.Context(), "graph data unavailable", "error", err, "action", action)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "graph data unavailable"})
	default:
		slog.ErrorContext(c.Request.Context(), "failed to "+action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

// respondBindError reports a failed query or body binding as a 400. Tag
// violations are listed per field.
func respondBindError(c *gin.Context, err error, what string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + ": " + err.Error()})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describeFieldError(fe)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what, "fields": fields})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt", "gte", "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
