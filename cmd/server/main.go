package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcourier "github.com/commerceos/backend/internal/application/courier"
	appshipping "github.com/commerceos/backend/internal/application/shipping"
	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/infrastructure/auth"
	"github.com/commerceos/backend/internal/infrastructure/cache"
	"github.com/commerceos/backend/internal/infrastructure/config"
	infracourier "github.com/commerceos/backend/internal/infrastructure/courier"
	"github.com/commerceos/backend/internal/infrastructure/event"
	"github.com/commerceos/backend/internal/infrastructure/logger"
	"github.com/commerceos/backend/internal/infrastructure/persistence"
	"github.com/commerceos/backend/internal/interfaces/http/handler"
	"github.com/commerceos/backend/internal/interfaces/http/router"
)

// version is injected at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting shipping backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, &cfg.Log, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := persistence.CloseDatabase(db); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// repositories
	orderRepo := persistence.NewGormOrderRepository(db)
	shipmentRepo := persistence.NewGormShipmentRepository(db)
	accountRepo := persistence.NewGormCourierAccountRepository(db)

	// carrier adapters
	registry := infracourier.NewProviderRegistry(
		infracourier.NewShiprocketAdapter(infracourier.ShiprocketConfig{
			BaseURL: cfg.Courier.ShiprocketBaseURL,
			Timeout: cfg.Courier.RequestTimeout,
		}),
		infracourier.NewDelhiveryAdapter(infracourier.DelhiveryConfig{
			BaseURL: cfg.Courier.DelhiveryBaseURL,
			Timeout: cfg.Courier.RequestTimeout,
		}),
	)
	log.Info("courier providers registered", zap.Any("types", registry.Types()))

	// quote cache: redis when enabled, in-process otherwise
	var quoteCache appshipping.QuoteCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisQuoteCache(cfg.Redis, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("error closing redis", zap.Error(err))
			}
		}()
		quoteCache = redisCache
		log.Info("redis quote cache connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		quoteCache = cache.NewInMemoryQuoteCache()
	}

	retryPolicy := shared.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxJitter:   cfg.Retry.MaxJitter,
	}

	// application services
	shipmentService := appshipping.NewShipmentService(
		shipmentRepo, orderRepo, accountRepo, registry, quoteCache, retryPolicy, log)
	accountService := appcourier.NewAccountService(accountRepo, registry, log)

	// lifecycle events feed the in-process audit log
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appshipping.NewShipmentAuditLogger(log))
	shipmentService.SetEventPublisher(eventBus)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine, err := router.New(cfg, jwtService, router.Handlers{
		Health:         handler.NewHealthHandler(db, version),
		Shipment:       handler.NewShipmentHandler(shipmentService, log),
		CourierAccount: handler.NewCourierAccountHandler(accountService, log),
	}, log)
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
