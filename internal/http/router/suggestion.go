package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/handler"
)

// SuggestionRouter registers the review queue. /observations is the
// synchronous twin of the worker's stream ingestion.
func SuggestionRouter(rg *gin.RouterGroup, h *handler.SuggestionHandler) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.POST("/observations", h.Observe)
	rg.POST("/:suggestion_id/approve", h.Approve)
	rg.POST("/:suggestion_id/reject", h.Reject)
	rg.POST("/:suggestion_id/dismiss", h.Dismiss)
}
