package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/menuca/menuca-backend/config"
	"github.com/menuca/menuca-backend/internal/app/controller"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/app/service"
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/menuca/menuca-backend/internal/middleware"
	"github.com/menuca/menuca-backend/internal/router"
	"github.com/menuca/menuca-backend/internal/scheduler"
	"github.com/menuca/menuca-backend/pkg/logger"
	"github.com/menuca/menuca-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MenuCA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Role-scoped connection pools, one per database principal
	registry := db.NewRegistry(&cfg.Database, nil)
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Error("Failed to close database pools", err)
		}
	}()

	// Migrations run on the administrator pool; the other principals
	// lack DDL privileges
	adminDB, err := registry.ForRole(db.PoolAdministrator)
	if err != nil {
		logger.Fatal("Failed to open administrator pool", err)
	}
	if err := db.Migrate(adminDB); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist; the server runs without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	authDB, err := registry.ForRole(db.PoolAuth)
	if err != nil {
		logger.Fatal("Failed to open auth pool", err)
	}
	consumerDB, err := registry.ForRole(db.PoolConsumer)
	if err != nil {
		logger.Fatal("Failed to open consumer pool", err)
	}
	vendorDB, err := registry.ForRole(db.PoolVendor)
	if err != nil {
		logger.Fatal("Failed to open vendor pool", err)
	}

	// Initialize repositories, each bound to its role's pool
	authUserRepo := repository.NewUserRepository(authDB)
	adminUserRepo := repository.NewUserRepository(adminDB)
	consumerRestaurantRepo := repository.NewRestaurantRepository(consumerDB)
	vendorRestaurantRepo := repository.NewRestaurantRepository(vendorDB)
	consumerDishRepo := repository.NewDishRepository(consumerDB)
	vendorDishRepo := repository.NewDishRepository(vendorDB)
	reviewRepo := repository.NewReviewRepository(consumerDB)

	// Initialize services
	authService := service.NewAuthService(registry, authUserRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	restaurantService := service.NewRestaurantService(
		registry,
		consumerRestaurantRepo,
		vendorRestaurantRepo,
		vendorDishRepo,
	)
	dishService := service.NewDishService(registry, consumerDishRepo, vendorDishRepo, vendorRestaurantRepo)
	reviewService := service.NewReviewService(registry, reviewRepo, consumerRestaurantRepo)
	adminService := service.NewAdminService(adminUserRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.TokenExpiry)
	restaurantController := controller.NewRestaurantController(restaurantService)
	dishController := controller.NewDishController(dishService)
	reviewController := controller.NewReviewController(reviewService)
	adminController := controller.NewAdminController(adminService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Pool stats land in the logs once a minute
	poolStats := scheduler.NewPoolStatsScheduler(registry)
	if err := poolStats.Start(); err != nil {
		logger.Warn("Failed to start pool stats scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer poolStats.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		restaurantController,
		dishController,
		reviewController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
