// Package llm builds the flashcard generation client for the configured
// provider. OpenRouter requests go over plain HTTP; Gemini requests go through
// the genai SDK behind an openrouter.Transport.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/phrazzld/flashgen/internal/platform/gemini"
)

// NewClient creates an openrouter.Client from cfg. extra options are applied
// after the ones derived from cfg.
func NewClient(ctx context.Context, cfg config.LLMConfig, log *slog.Logger, extra ...openrouter.Option) (*openrouter.Client, error) {
	if log == nil {
		log = slog.Default()
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}

	opts := []openrouter.Option{
		openrouter.WithLogger(log),
		openrouter.WithRetryPolicy(openrouter.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   openrouter.DefaultBaseDelay,
		}),
	}

	switch cfg.Provider {
	case config.ProviderOpenRouter, "":
		opts = append(opts,
			openrouter.WithHTTPClient(httpClient),
			openrouter.WithEndpoint(cfg.Endpoint),
			openrouter.WithReferer(cfg.Referer),
			openrouter.WithTitle(cfg.Title))
	case config.ProviderGemini:
		transport, err := gemini.NewTransport(ctx, cfg.APIKey, httpClient, log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, openrouter.WithTransport(transport))
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	opts = append(opts, extra...)

	client, err := openrouter.NewClient(cfg.APIKey, Overrides(cfg), opts...)
	if err != nil {
		return nil, err
	}
	log.Info("LLM client initialized",
		"provider", cfg.Provider,
		"model", client.Model())
	return client, nil
}

// Overrides turns the configured model settings into a ConfigUpdate. Empty
// strings and non-positive token limits keep the client defaults; temperature
// is always applied since zero is a valid setting.
func Overrides(cfg config.LLMConfig) *openrouter.ConfigUpdate {
	update := &openrouter.ConfigUpdate{ModelParams: map[string]any{}}
	if cfg.ModelName != "" {
		update.ModelName = &cfg.ModelName
	}
	if cfg.SystemMessage != "" {
		update.SystemMessage = &cfg.SystemMessage
	}
	update.ModelParams["temperature"] = cfg.Temperature
	if cfg.MaxTokens > 0 {
		update.ModelParams["max_tokens"] = cfg.MaxTokens
	}
	if cfg.TopP > 0 {
		update.ModelParams["top_p"] = cfg.TopP
	}
	return update
}
