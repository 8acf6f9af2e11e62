package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/cache"
	"github.com/NishantsCode/NextHire/internal/config"
	"github.com/NishantsCode/NextHire/internal/handlers"
	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/repositories"
	"github.com/NishantsCode/NextHire/internal/services"
)

func main() {
	cfg, envLoaded := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !envLoaded {
		log.Info("no .env file found, using environment and defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	docRepo := repositories.NewDocumentRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:         cfg.Gemini.APIKey,
		Model:          cfg.Gemini.Model,
		EmbedModel:     cfg.Gemini.EmbedModel,
		Temperature:    cfg.Gemini.Temperature,
		RequestTimeout: cfg.Gemini.RequestTimeout,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	store, err := cache.Open(ctx, cfg.Extraction.CacheBackend, cfg.Extraction.RedisURL, log)
	if err != nil {
		log.Fatal("failed to open extraction cache", zap.Error(err))
	}
	defer store.Close()

	extractor := services.NewCachedExtractor(
		services.NewDocumentExtractor(log),
		services.NewExtractionCache(store, cfg.Extraction.CacheTTL, log),
	)

	structuring := services.NewStructuringEngine(gemini, log)
	scoring := services.NewScoringEngine(gemini, extractor, log)
	coordinator := services.NewBulkScoringCoordinator(scoring, cfg.Scoring.BulkBatchSize, log)

	search := services.NewJobSearchService(nil, nil, log)
	if cfg.Qdrant.URL != "" && gemini.IsConfigured() {
		vectorStore, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, 768, log)
		if err != nil {
			log.Fatal("failed to initialize qdrant", zap.Error(err))
		}
		if err := vectorStore.InitCollection(ctx); err != nil {
			log.Warn("qdrant collection unavailable, job search disabled", zap.Error(err))
		} else {
			search = services.NewJobSearchService(vectorStore, gemini, log)
		}
	}

	jobService := services.NewJobService(jobRepo, extractor, structuring, search, log)
	appService := services.NewApplicationService(appRepo, jobRepo, scoring, coordinator, log)

	var worker services.Worker
	if cfg.Worker.AutoScore && gemini.IsConfigured() {
		worker = services.NewWorker(appRepo, appService, services.WorkerOptions{
			Concurrency: cfg.Worker.Concurrency,
		}, log)
		appService.SetScoreQueue(worker)
		worker.Start(ctx)
	}

	uploads := handlers.NewUploadHandler(docRepo, storageService, log)

	app := fiber.New(fiber.Config{
		AppName:      "NextHire API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.Routes{
		Jobs:          handlers.NewJobHandler(jobService, uploads),
		Applications:  handlers.NewApplicationHandler(appService, uploads),
		ATS:           handlers.NewATSHandler(appService),
		AIConfigured:  gemini.IsConfigured(),
		SearchEnabled: search.Enabled(),
	}.Register(app.Group("/api/v1"))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "NextHire API",
			"version": "1.0.0",
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if worker != nil {
			worker.Stop()
		}
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
		zap.Bool("ai_configured", gemini.IsConfigured()),
		zap.Bool("search_enabled", search.Enabled()),
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
