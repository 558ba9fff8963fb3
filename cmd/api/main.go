package main

import (
	"context"
	"log"

	"shipping-distance/internal/core/cache"
	"shipping-distance/internal/core/config"
	"shipping-distance/internal/core/httpclient"
	"shipping-distance/internal/core/logger"
	"shipping-distance/internal/core/server"
	distanceadapter "shipping-distance/internal/features/distance/adapters"
	distanceservice "shipping-distance/internal/features/distance/service"
	shippingadapter "shipping-distance/internal/features/shipping/adapters"
	shippinghandler "shipping-distance/internal/features/shipping/handler"
	shippingservice "shipping-distance/internal/features/shipping/service"

	"go.uber.org/zap"
)

// @title Shipping Distance API
// @version 1.0
// @description This API computes distance based shipping rates from a configurable rate table.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Cache and wait for it
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL, cfg.Redis.KeyPrefix)
	if err != nil {
		l.Fatal("Invalid cache configuration", zap.Error(err))
	}
	defer redisCache.Close()

	if err := cache.WaitReady(context.Background(), redisCache, uint64(cfg.Redis.StartupRetries)); err != nil {
		l.Fatal("Cache unavailable", zap.Error(err))
	}
	l.Info("Cache connection verified")

	// Initialize Distance Matrix Adapter & Service
	matrixClient := httpclient.NewClient(cfg.DistanceMatrix.Timeout(),
		httpclient.WithRedactedParams(distanceadapter.APIKeyParam),
		httpclient.WithCircuitBreaker(httpclient.DefaultBreakerConfig("distance-matrix")),
		httpclient.WithRateLimit(cfg.DistanceMatrix.RequestsPerSecond, cfg.DistanceMatrix.Burst),
		httpclient.WithProxy(cfg.Proxy),
	)
	matrixAdapter := distanceadapter.NewGoogleMatrixAdapter(matrixClient, cfg.DistanceMatrix.URL, cfg.DistanceMatrix.APIKey)
	distanceSvc := distanceservice.NewDistanceService(matrixAdapter, redisCache)

	// Load Shipping Settings
	settingsStore, err := shippingadapter.NewSettingsFileStore(cfg.Shipping.SettingsFile)
	if err != nil {
		l.Fatal("Failed to load shipping settings", zap.String("file", cfg.Shipping.SettingsFile), zap.Error(err))
	}
	if cfg.Shipping.WatchSettings {
		settingsStore.Watch()
	}

	calculator := shippingservice.NewShippingCalculator(settingsStore, distanceSvc)

	// Initialize Order Quotes when the store is configured
	var quotes *shippingservice.OrderQuoteService
	if cfg.WooCommerce.Enabled() {
		wcAdapter := shippingadapter.NewWooCommerceCartAdapter(cfg.WooCommerce)
		if err := wcAdapter.HealthCheck(context.Background()); err != nil {
			l.Fatal("WooCommerce Health Check Failed", zap.Error(err))
		}
		l.Info("WooCommerce connection verified")
		quotes = shippingservice.NewOrderQuoteService(wcAdapter, calculator)
	}

	shippingHdl := shippinghandler.NewShippingHandler(calculator, quotes, settingsStore)

	srv := server.New(cfg, redisCache)

	// Register Routes
	srv.App.Post("/shipping/rates", shippingHdl.GetRates)
	srv.App.Post("/settings/validate", shippingHdl.ValidateSettings)
	srv.App.Get("/settings/schema", shippingHdl.GetSchema)
	if quotes != nil {
		srv.App.Get("/orders/:id/shipping-rates", shippingHdl.GetOrderRates)
	}

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
