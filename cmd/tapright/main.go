package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tapright/internal/api"
	"tapright/internal/api/handlers"
	"tapright/internal/places"
	"tapright/internal/repository"
	"tapright/internal/service"
	"tapright/pkg/auth"
	"tapright/pkg/config"
	"tapright/pkg/logger"
	"tapright/pkg/postgres"

	"go.uber.org/zap"
)

// @title TapRight API
// @version 1.0
// @description Location-triggered card recommendation service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@tapright.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting TapRight service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	visitRepo := repository.NewVisitRepository(db, appLogger)
	cardRepo := repository.NewCardRepository(db, appLogger)
	walletRepo := repository.NewWalletRepository(db, appLogger)
	profileRepo := repository.NewProfileRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize the places provider and the recommendation pipeline
	provider, err := places.NewProvider(cfg.Places, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize places provider", zap.Error(err))
	}
	appLogger.Info("Places provider ready", zap.String("provider", provider.Name()))

	resolver := service.NewResolver(provider, appLogger)
	ledger := service.NewVisitLedger(visitRepo, cfg.Recommend.DedupWindow, appLogger)
	planner := service.NewPlanner(
		resolver,
		ledger,
		service.NewGate(),
		walletRepo,
		cardRepo,
		profileRepo,
		cfg.Recommend,
		appLogger,
	)

	// Initialize handlers
	locationHandler := handlers.NewLocationHandler(planner, appLogger)
	cardHandler := handlers.NewCardHandler(cardRepo, walletRepo, appLogger)

	// Setup router
	app := api.SetupRouter(locationHandler, cardHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
