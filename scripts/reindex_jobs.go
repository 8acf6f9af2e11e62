package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/config"
	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/repositories"
	"github.com/NishantsCode/NextHire/internal/services"
)

// Rebuilds the job search index from every stored job.
func main() {
	cfg, _ := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Qdrant.URL == "" {
		log.Fatal("QDRANT_URL is not set")
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}
	if !gemini.IsConfigured() {
		log.Fatal("GEMINI_API_KEY is required for embeddings")
	}

	vectorStore, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, 768, log)
	if err != nil {
		log.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := vectorStore.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize collection", zap.Error(err))
	}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	jobService := services.NewJobService(
		repositories.NewJobRepository(db),
		nil,
		nil,
		services.NewJobSearchService(vectorStore, gemini, log),
		log,
	)

	indexed, err := jobService.Reindex(ctx)
	if err != nil {
		log.Fatal("reindex failed", zap.Int("indexed", indexed), zap.Error(err))
	}

	log.Info("reindex completed", zap.Int("indexed", indexed))
}
