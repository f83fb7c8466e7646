package router // package router defines how HTTP routes are registered for the API

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-seating/internal/config"
	"github.com/iliyamo/bus-seating/internal/handler"
	"github.com/iliyamo/bus-seating/internal/middleware"
)

// RegisterRoutes registers non-authenticated routes on the provided Echo
// instance. At the moment it only exposes a health check endpoint; check
// may be nil when there is no backing database.
func RegisterRoutes(e *echo.Echo, check func(context.Context) error) {
	e.GET("/healthz", handler.Health(check))
}

// RegisterPublic registers the passenger-facing endpoints. The layout
// preview is cached in Redis and the claim link is rate limited per link;
// both fall back to pass-through when rdb is nil.
func RegisterPublic(e *echo.Echo, h *handler.ClaimHandler, cfg config.Config, rdb *redis.Client) {
	e.GET("/v1/layouts/preview", handler.PreviewLayout, middleware.NewRedisCache(cfg.Cache, rdb))

	claim := e.Group("/v1/claim", middleware.NewTokenBucket(cfg.RateLimit, rdb))
	claim.GET("/:token", h.Open)
	claim.POST("/:token", h.Claim)
}
