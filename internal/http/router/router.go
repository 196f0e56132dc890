package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/handler"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/middleware"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
)

type RouterConfig struct {
	Metrics      *metrics.Registry
	HealthChecks map[string]handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(cfg.HealthChecks)
	router.GET("/health", healthHandler.Health)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		projects := v1.Group("/projects/:project_id")
		projects.Use(middleware.ProjectScope())

		graphHandler := handler.NewGraphHandler(services.Graph())
		GraphRouter(projects.Group("/graph"), graphHandler)

		suggestionHandler := handler.NewSuggestionHandler(services.Suggestions())
		SuggestionRouter(projects.Group("/suggestions"), suggestionHandler)
	}
}
