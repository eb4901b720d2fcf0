package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/app/controller"
	"github.com/greenbean/storefront-backend/internal/app/repository"
	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/greenbean/storefront-backend/internal/cartstore"
	"github.com/greenbean/storefront-backend/internal/db"
	"github.com/greenbean/storefront-backend/internal/middleware"
	"github.com/greenbean/storefront-backend/internal/notifier"
	"github.com/greenbean/storefront-backend/internal/router"
	"github.com/greenbean/storefront-backend/internal/scheduler"
	"github.com/greenbean/storefront-backend/internal/storage"
	"github.com/greenbean/storefront-backend/internal/websocket"
	"github.com/greenbean/storefront-backend/pkg/checkout"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"github.com/greenbean/storefront-backend/pkg/redis"
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

	logger.Info("Starting Green Bean Storefront Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Cart storage: Redis-backed when available, in-process otherwise.
	var store cartstore.Store
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, using in-process cart storage", map[string]interface{}{
			"error": err.Error(),
		})
		store = cartstore.NewMemoryStore()
	} else {
		defer redis.Close()
		store = cartstore.NewRedisStore(redis.GetClient(), cfg.Session.TTL)
	}

	// Cross-tab and cross-instance cart notifications.
	bus := notifier.NewBus()
	cartNotifier := notifier.NewNotifier(redis.GetClient(), bus)

	listenCtx, stopListening := context.WithCancel(context.Background())
	defer stopListening()
	if redis.GetClient() != nil {
		go cartNotifier.Listen(listenCtx)
	}

	hub := websocket.NewHub()
	go hub.Run()
	bus.Subscribe(hub.PushCartEvent)

	// Checkout gateway client.
	gateway, err := checkout.NewClient(checkout.Config{
		BaseURL:     cfg.Checkout.GatewayURL,
		SyncPath:    cfg.Checkout.SyncPath,
		Timeout:     cfg.Checkout.Timeout,
		SettleDelay: cfg.Checkout.SettleDelay,
	})
	if err != nil {
		logger.Fatal("Failed to create checkout gateway client", err)
	}
	defer gateway.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(store, cartNotifier)
	pricingService := service.NewPricingService(cfg.Cart)
	checkoutService := service.NewCheckoutService(cartService, pricingService, orderRepo, gateway)

	imageStorage := storage.NewImageStorage(cfg.S3)

	// Initialize controllers
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, productService, pricingService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	uploadController := controller.NewUploadController(imageStorage, productService)
	wsController := controller.NewWsController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session)

	// Reconciliation pass for missed pushes.
	reconciler := scheduler.NewCartReconciler(cartService, hub, cfg.Cart.ReconcileSpec)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start cart reconciler", err)
	}
	defer reconciler.Stop()

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		checkoutController,
		uploadController,
		wsController,
		sessionMiddleware,
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
