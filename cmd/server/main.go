package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"services/ea-service/internal/cache"
	"services/ea-service/internal/config"
	"services/ea-service/internal/event"
	"services/ea-service/internal/handler"
	"services/ea-service/internal/middleware"
	"services/ea-service/internal/repository"
	"services/ea-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	modelRepo := repository.NewModelRepository(db, logger)
	versionRepo := repository.NewVersionRepository(db, logger)
	marketplaceRepo := repository.NewMarketplaceRepository(db, logger)
	paymentRepo := repository.NewPaymentRepository(db, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(db, logger)

	// Shared infrastructure
	redisClient, err := setupRedis(cfg.Redis)
	if err != nil {
		logger.Error("Failed to set up Redis", zap.Error(err))
		// Continue without Redis; the list cache degrades to a miss on
		// every lookup.
		redisClient = nil
	} else {
		defer redisClient.Close()
	}
	listCache := cache.NewListCache(redisClient, cfg.Cache.ListTTL, logger)
	publisher := event.NewPublisher(cfg.Kafka.Brokers, logger)
	defer publisher.Close()

	// Initialize services
	modelService := service.NewModelService(modelRepo, versionRepo, subscriptionRepo, listCache, publisher, logger)
	versionService := service.NewVersionService(versionRepo, modelRepo, listCache, publisher, logger)
	rankingService := service.NewRankingService(modelRepo, cfg.Ranking.TopSize, publisher, logger)
	marketplaceService := service.NewMarketplaceService(
		marketplaceRepo,
		modelRepo,
		paymentRepo,
		cfg.Marketplace.CommissionRate,
		listCache,
		publisher,
		logger,
	)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, logger)
	paymentService := service.NewPaymentService(paymentRepo, logger)
	backtestService := service.NewBacktestService(logger)
	codegenService := service.NewCodegenService(logger)

	// Initialize handlers
	modelHandler := handler.NewModelHandler(modelService, rankingService, logger)
	versionHandler := handler.NewVersionHandler(versionService, logger)
	marketplaceHandler := handler.NewMarketplaceHandler(marketplaceService, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	backtestHandler := handler.NewBacktestHandler(backtestService, codegenService, logger)
	adminHandler := handler.NewAdminHandler(rankingService, modelService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(
		modelHandler,
		versionHandler,
		marketplaceHandler,
		subscriptionHandler,
		paymentHandler,
		backtestHandler,
		adminHandler,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func setupRedis(redisConfig config.RedisConfig) (*redis.Client, error) {
	redisURL := redisConfig.URL
	if envURL := os.Getenv("REDIS_URL"); envURL != "" {
		redisURL = envURL
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		// Plain host:port addresses are not valid Redis URLs
		opts = &redis.Options{
			Addr:     redisURL,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

func connectToDB(dbConfig config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

func setupRouter(
	modelHandler *handler.ModelHandler,
	versionHandler *handler.VersionHandler,
	marketplaceHandler *handler.MarketplaceHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	paymentHandler *handler.PaymentHandler,
	backtestHandler *handler.BacktestHandler,
	adminHandler *handler.AdminHandler,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// EA model routes
		models := v1.Group("/models")
		{
			models.POST("", modelHandler.Create)
			models.GET("/:id", modelHandler.ListByOwner)
			models.PUT("/:id", modelHandler.Update)
			models.DELETE("/:id", modelHandler.Delete)
			models.POST("/rank", modelHandler.Rank)
			models.POST("/:id/backtest-update", modelHandler.AttachBacktest)

			// Version management endpoints
			models.POST("/:id/versions", versionHandler.Save)
			models.GET("/:id/versions", versionHandler.List)
			models.POST("/:id/rollback", versionHandler.Rollback)

			// Marketplace submission endpoints
			models.POST("/:id/share", marketplaceHandler.Share)
			models.POST("/:id/approve", marketplaceHandler.Approve)
		}

		// Marketplace routes
		marketplace := v1.Group("/marketplace")
		{
			marketplace.GET("", marketplaceHandler.List)
			marketplace.POST("/purchase", marketplaceHandler.Purchase)
		}

		// Builder routes
		v1.POST("/backtest", backtestHandler.Run)
		v1.POST("/eacode", backtestHandler.GenerateCode)

		// Subscription routes
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("/free", subscriptionHandler.ActivateFree)
			subscriptions.GET("/:userId", subscriptionHandler.Status)
			subscriptions.POST("/upgrade", subscriptionHandler.Upgrade)
		}

		// Payment routes
		v1.POST("/payments/create", paymentHandler.Create)

		// Dashboard routes
		v1.GET("/admin/top-eamodels", adminHandler.TopModels)
		v1.GET("/analytics", adminHandler.Analytics)
	}

	return router
}
