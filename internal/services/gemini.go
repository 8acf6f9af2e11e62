package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/NishantsCode/NextHire/internal/logger"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultEmbedModel = "text-embedding-004"
	placeholderAPIKey = "your_gemini_api_key_here"
)

// CompletionService is the text-in/text-out generative collaborator.
type CompletionService interface {
	// IsConfigured reports whether Complete can be called at all.
	IsConfigured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiOptions struct {
	APIKey         string
	Model          string
	EmbedModel     string
	Temperature    float32
	RequestTimeout time.Duration
	MaxLogLength   int
}

// GeminiService is created once at startup and shared by every engine. A
// missing or placeholder API key yields an unconfigured service instead of an
// error so that callers fail with ErrAIUnavailable on use.
type GeminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	opts       GeminiOptions
	logger     *zap.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, log *zap.Logger) (*GeminiService, error) {
	if opts.Model = strings.TrimSpace(opts.Model); opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.EmbedModel = strings.TrimSpace(opts.EmbedModel); opts.EmbedModel == "" {
		opts.EmbedModel = defaultEmbedModel
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = 200
	}

	g := &GeminiService{
		modelName:  opts.Model,
		embedModel: opts.EmbedModel,
		opts:       opts,
		logger:     logger.WithCommonFields(log, "gemini", opts.Model),
	}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" || apiKey == placeholderAPIKey {
		g.logger.Warn("gemini api key is not configured, AI features are disabled")
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client

	return g, nil
}

// IsConfigured implements CompletionService.
func (g *GeminiService) IsConfigured() bool {
	return g != nil && g.client != nil
}

func (g *GeminiService) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// Complete implements CompletionService.
func (g *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.IsConfigured() {
		return "", ErrAIUnavailable
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if g.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.RequestTimeout)
		defer cancel()
	}

	temperature := g.opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, g.opts.MaxLogLength)),
	)

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	output := responseText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	g.logger.Debug("gemini generate content response",
		zap.Duration("latency", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", logger.TruncateForLog(output, g.opts.MaxLogLength)),
	)

	return output, nil
}

// GenerateEmbedding implements Embedder.
func (g *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if !g.IsConfigured() {
		return nil, ErrAIUnavailable
	}

	// roughly the embedding model's input limit
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
