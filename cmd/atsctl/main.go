// Command atsctl runs job structuring and resume scoring from the terminal,
// without a database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NishantsCode/NextHire/internal/cache"
	"github.com/NishantsCode/NextHire/internal/config"
	"github.com/NishantsCode/NextHire/internal/logger"
	"github.com/NishantsCode/NextHire/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "atsctl",
	Short:         "NextHire ATS tools",
	Long:          "Extract, structure and score hiring documents with the NextHire ATS core.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiKey  string
	model   string
	debug   bool
	outFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Gemini model (overrides GEMINI_MODEL env var)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// toolkit is the core wiring shared by the subcommands.
type toolkit struct {
	cfg       *config.Config
	log       *zap.Logger
	gemini    *services.GeminiService
	extractor services.TextExtractor
	store     cache.Store
}

// newToolkit builds the engines from the same environment the API reads.
// Command-line flags win over the environment.
func newToolkit(ctx context.Context) (*toolkit, error) {
	cfg, _ := config.Load()
	if apiKey != "" {
		cfg.Gemini.APIKey = apiKey
	}
	if model != "" {
		cfg.Gemini.Model = model
	}

	log, err := logger.New(false, debug || cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:         cfg.Gemini.APIKey,
		Model:          cfg.Gemini.Model,
		EmbedModel:     cfg.Gemini.EmbedModel,
		Temperature:    cfg.Gemini.Temperature,
		RequestTimeout: cfg.Gemini.RequestTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(ctx, cfg.Extraction.CacheBackend, cfg.Extraction.RedisURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open extraction cache: %w", err)
	}

	extractor := services.NewCachedExtractor(
		services.NewDocumentExtractor(log),
		services.NewExtractionCache(store, cfg.Extraction.CacheTTL, log),
	)

	return &toolkit{cfg: cfg, log: log, gemini: gemini, extractor: extractor, store: store}, nil
}

// batchSize returns the --batch-size flag, or BULK_BATCH_SIZE when unset.
func (t *toolkit) batchSize() int {
	if scoreBatch > 0 {
		return scoreBatch
	}
	return t.cfg.Scoring.BulkBatchSize
}

func (t *toolkit) Close() {
	_ = t.store.Close()
	_ = t.log.Sync()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
