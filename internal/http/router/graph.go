package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/handler"
)

func GraphRouter(rg *gin.RouterGroup, h *handler.GraphHandler) {
	rg.GET("", h.Get)
	rg.POST("/refresh", h.Refresh)
	rg.GET("/hubs", h.Hubs)
	rg.GET("/isolated", h.Isolated)
	rg.GET("/path", h.Path)
	rg.GET("/neighbors/:actor_id", h.Neighbors)
}
