package routes

import (
	"net/http"

	"security-monitor/internal/config"
	"security-monitor/internal/delivery/http/handler"
	"security-monitor/internal/infrastructure/database/postgres"
	"security-monitor/internal/logger"
	"security-monitor/internal/middleware"
	"security-monitor/internal/usecase/device"
	"security-monitor/internal/usecase/event"
	"security-monitor/internal/ws"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, deviceService *device.Service, eventService *event.Service, hub *ws.Hub) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware in order: recovery, request ID, logging, security headers,
	// CORS, request size limit, general rate limit.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Security Device Monitor API is running",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"message":     "Service is running",
			"subscribers": hub.Count(),
		})
	})

	deviceHandler := handler.NewDeviceHandler(deviceService)
	eventHandler := handler.NewEventHandler(eventService)
	authHandler := handler.NewAuthHandler(cfg)
	wsHandler := handler.NewWSHandler(hub, deviceService, eventService, cfg)

	router.GET("/ws", wsHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		deviceHandler.RegisterRoutes(v1)
		eventHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			deviceHandler.RegisterProtectedRoutes(protected)
		}
	}

	logger.Info("All routes initialized")
	return router
}
