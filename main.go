// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"legal-marketplace/cmd"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/jobs"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/internal/wire"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/database"
	"legal-marketplace/pkg/events"
	"legal-marketplace/pkg/llm"
	"legal-marketplace/pkg/storage"
	"legal-marketplace/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Location().String()),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Schema applied")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// External services degrade to disabled implementations when unconfigured
	store, err := storage.New(config.Storage.CloudinaryURL, config.Storage.Folder, logger)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err))
	}

	completer, err := llm.New(ctx, llm.Config{
		APIKey:      config.AI.APIKey,
		Model:       config.AI.Model,
		MaxTokens:   config.AI.MaxTokens,
		Temperature: config.AI.Temperature,
		Timeout:     config.AI.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to init AI client", zap.Error(err))
	}
	defer completer.Close()

	lookups, err := cache.New(ctx, cache.Config{
		Addr:     config.Cache.RedisAddr,
		Password: config.Cache.RedisPassword,
		DB:       config.Cache.RedisDB,
		TTL:      config.Cache.TTL,
		Prefix:   config.App.Name + ":",
	}, logger)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", zap.Error(err))
		lookups = cache.Noop{}
	}
	defer lookups.Close()

	publisher := events.NewPublisher(config.Events.Brokers, config.Events.Topic, logger)
	defer publisher.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, usecase.Deps{
		Storage: store,
		LLM:     completer,
		Cache:   lookups,
		Events:  publisher,
	}, config, logger)

	go app.Limiter.Run(ctx)

	scheduler := jobs.New(repos, publisher, config.Jobs, config.App.Location(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start jobs", zap.Error(err))
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}

	scheduler.Stop(context.Background())
	logger.Info("Application stopped")
}
