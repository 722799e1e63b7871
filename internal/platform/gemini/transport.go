package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

// ContentGenerator is the subset of the genai client used by Transport.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Transport sends flashcard requests to Gemini.
type Transport struct {
	models ContentGenerator
	logger *slog.Logger
}

var _ openrouter.Transport = (*Transport)(nil)

// NewTransport creates a Transport with a genai client for apiKey.
func NewTransport(ctx context.Context, apiKey string, httpClient *http.Client, log *slog.Logger) (*Transport, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewTransportWithGenerator(client.Models, log), nil
}

// NewTransportWithGenerator creates a Transport around an existing generator.
func NewTransportWithGenerator(models ContentGenerator, log *slog.Logger) *Transport {
	if log == nil {
		log = slog.Default()
	}
	return &Transport{models: models, logger: log.With(slog.String("component", "gemini_transport"))}
}

// Send implements openrouter.Transport.
func (t *Transport) Send(ctx context.Context, payload openrouter.RequestPayload) (*openrouter.RawResponse, error) {
	if strings.TrimSpace(payload.Model) == "" {
		return nil, ErrMissingModel
	}
	log := logger.FromContextOrDefault(ctx, t.logger)

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: payload.Prompt(openrouter.RoleUser)}},
	}}
	resp, err := t.models.GenerateContent(ctx, payload.Model, contents, generationConfig(payload))
	if err != nil {
		if status, message, ok := apiStatus(err); ok {
			log.WarnContext(ctx, "Gemini API returned an error",
				"status", status,
				"model", payload.Model)
			return errorResponse(status, message)
		}
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	return contentResponse(resp)
}

func generationConfig(payload openrouter.RequestPayload) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if system := payload.Prompt(openrouter.RoleSystem); system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if v, ok := payload.FloatParam("temperature"); ok {
		f := float32(v)
		cfg.Temperature = &f
	}
	if v, ok := payload.FloatParam("top_p"); ok {
		f := float32(v)
		cfg.TopP = &f
	}
	if v, ok := payload.FloatParam("max_tokens"); ok {
		cfg.MaxOutputTokens = int32(v)
	}
	if payload.ResponseFormat != nil && payload.ResponseFormat.IsJSON() {
		cfg.ResponseMIMEType = jsonMIMEType
	}
	return cfg
}

// contentResponse renders the first candidate as a content envelope.
func contentResponse(resp *genai.GenerateContentResponse) (*openrouter.RawResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return jsonResponse(http.StatusOK, map[string]any{"choices": []any{}})
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || candidate.FinishReason == genai.FinishReasonSafety {
		return jsonResponse(http.StatusOK, map[string]any{"content": nil})
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return jsonResponse(http.StatusOK, map[string]any{"content": nil})
	}
	return jsonResponse(http.StatusOK, map[string]any{"content": text.String()})
}

func errorResponse(status int, message string) (*openrouter.RawResponse, error) {
	return jsonResponse(status, map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}

func jsonResponse(status int, body any) (*openrouter.RawResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &openrouter.RawResponse{StatusCode: status, Body: b}, nil
}

// apiStatus extracts the HTTP status of a Gemini API error.
func apiStatus(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code > 0 {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}
