package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/citation-service/internal/config"
	"github.com/brandpulse/citation-service/internal/handler"
	"github.com/brandpulse/citation-service/internal/middleware"
)

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Each handler gets exactly the dependencies it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	citationHandler := handler.NewCitationHandler(deps.Citations, deps.Registry, logger)
	adminHandler := handler.NewAdminHandler(deps.Calls, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Tenant endpoints: API-key auth plus per-key rate limiting. A citation
	// run fans out to every provider, so the inbound limit is the first line
	// of defense against runaway LLM spend.
	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.POST("/citations", citationHandler.Query)
		authed.GET("/platforms", citationHandler.Platforms)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/calls", adminHandler.Calls)
	}
}
