package routes

import (
	"context"
	"os"
	"time"

	"assetledger/internal/core/container"
	"assetledger/internal/middleware"
	"assetledger/internal/rate_limiter"
	"assetledger/pkg/security"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine. A nil limiter leaves writes unlimited.
func NewRouter(c *container.Container, health map[string]middleware.Pinger, timeout time.Duration, limiter *rate_limiter.RateLimiter, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
		cors.New(corsConfig()),
	)

	RegisterUtilityRoutes(router, health, logger)

	api := router.Group("")
	api.Use(middleware.TimeoutMiddleware(timeout))
	RegisterProtectedRoutes(api, c, limiter)

	return router
}

func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	return config
}

func RegisterProtectedRoutes(router *gin.RouterGroup, c *container.Container, limiter *rate_limiter.RateLimiter) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	if limiter != nil {
		protectedRoutes.Use(limiter.Middleware())
	}

	c.AssetHandler.RegisterRoutes(protectedRoutes)
	c.LedgerHandler.RegisterRoutes(protectedRoutes)
	c.AuditLogHandler.RegisterRoutes(protectedRoutes)
	c.DirectoryHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, health map[string]middleware.Pinger, logger *zap.Logger) {
	router.GET("/health", middleware.HealthCheckMiddleware(health))

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		logger.Info("Route /openapi.html registered")
	}
}

// HealthChecks collects the pingable dependencies that are configured.
func HealthChecks(c *container.Container, deps container.Dependencies) map[string]middleware.Pinger {
	checks := map[string]middleware.Pinger{"postgres": c.Repository.DB}
	if deps.Redis != nil {
		checks["redis"] = middleware.PingFunc(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}
	if deps.Nats != nil {
		checks["nats"] = middleware.PingFunc(func(ctx context.Context) error {
			return deps.Nats.FlushWithContext(ctx)
		})
	}
	return checks
}
