package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/infrastructure/auth"
	"github.com/commerceos/backend/internal/infrastructure/config"
	"github.com/commerceos/backend/internal/infrastructure/logger"
	"github.com/commerceos/backend/internal/interfaces/http/handler"
	"github.com/commerceos/backend/internal/interfaces/http/middleware"
)

// Handlers groups the handlers wired into the router
type Handlers struct {
	Health         *handler.HealthHandler
	Shipment       *handler.ShipmentHandler
	CourierAccount *handler.CourierAccountHandler
}

// New builds the gin engine with the full middleware chain and routes
func New(cfg *config.Config, jwtService *auth.JWTService, handlers Handlers, zapLogger *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return nil, fmt.Errorf("failed to set up validator: %w", err)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(zapLogger))
	engine.Use(logger.Recovery(zapLogger))
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", handlers.Health.Health)
	engine.GET("/ready", handlers.Health.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(middleware.JWTAuthConfig{
		Service:   jwtService,
		SkipPaths: []string{"/api/v1/webhooks"},
	}))

	shipments := api.Group("/shipments")
	{
		shipments.POST("", handlers.Shipment.Create)
		shipments.GET("", handlers.Shipment.List)
		shipments.GET("/:id", handlers.Shipment.Get)
		shipments.GET("/:id/couriers", handlers.Shipment.AvailableCouriers)
		shipments.POST("/:id/assign-courier", handlers.Shipment.AssignCourier)
		shipments.PATCH("/:id/status", handlers.Shipment.UpdateStatus)
		shipments.POST("/:id/cancel", handlers.Shipment.Cancel)
	}

	accounts := api.Group("/courier-accounts")
	{
		accounts.POST("", handlers.CourierAccount.Create)
		accounts.GET("", handlers.CourierAccount.List)
		accounts.GET("/:id", handlers.CourierAccount.Get)
		accounts.POST("/:id/test-connection", handlers.CourierAccount.TestConnection)
	}

	// carriers push tracking updates here; the route skips JWT auth and
	// identifies the tenant by the X-Tenant-ID header set at registration
	api.POST("/webhooks/tracking", handlers.Shipment.TrackingWebhook)

	return engine, nil
}
