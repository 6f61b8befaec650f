package main

import (
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/redis"
	"storefront/internal/repository"
	"storefront/internal/services"
	"storefront/pkg/erp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// ERP integration client
	erpClient := erp.NewClient(cfg.ERPAPIURL, cfg.ERPAPIKey, time.Duration(cfg.SyncTimeout)*time.Second)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	syncRepo := repository.NewSyncRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// Initialize services
	syncService := services.NewERPSyncService(erpClient, syncRepo, redisClient, cfg.SyncMaxRetries, logger)
	orderService := services.NewOrderService(orderRepo, syncService, erpClient, services.PricingPolicy{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}, logger)
	productService := services.NewProductService(productRepo, logger)
	authService := services.NewAuthService(customerRepo, redisClient, time.Duration(cfg.SessionTTL)*time.Second)

	if err := productService.SeedDefaultCatalog(); err != nil {
		logger.Error("failed to seed product catalog", zap.Error(err))
	}

	// Health-check the ERP and replay the failed-sync ledger once.
	syncService.Initialize()

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, productService, syncService)
	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	api.Use(handlers.OptionalAuth(authService))
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/products", productHandler.ListProducts)
		api.GET("/products/:id", productHandler.GetProduct)

		api.POST("/orders", orderHandler.Checkout)
		api.GET("/orders", orderHandler.ListOrders)
		api.GET("/orders/statistics", orderHandler.Statistics)
		api.GET("/orders/number/:number", orderHandler.GetOrderByNumber)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		api.POST("/orders/:id/cancel", orderHandler.Cancel)
		api.POST("/orders/retry-sync", orderHandler.RetrySyncs)
		api.DELETE("/orders", orderHandler.ClearAll)

		api.GET("/sync/status/:orderId", orderHandler.SyncStatus)
		api.GET("/sync/health", orderHandler.SyncHealth)
	}

	// Start server
	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return cfg.Build()
}
