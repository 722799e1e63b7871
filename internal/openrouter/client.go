package openrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/redact"
)

// Flashcard is one generated question/answer pair.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Attempt outcomes reported to an Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeRetryable = "retryable_error"
	OutcomeTerminal  = "terminal_error"
)

// Observer receives per-attempt and per-request measurements.
type Observer interface {
	ObserveAttempt(model, outcome string, duration time.Duration)
	ObserveResult(model, code string)
}

// Client generates flashcards through a chat completions API. It is safe for
// concurrent use.
type Client struct {
	apiKey        string
	cfg           atomic.Pointer[GenerationConfig]
	transport     Transport
	retry         RetryPolicy
	sleep         Sleeper
	logger        *slog.Logger
	observer      Observer
	expectedField string

	endpoint   string
	referer    string
	title      string
	httpClient HTTPDoer
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport, e.g. with another provider.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithHTTPClient overrides the HTTP client of the default transport.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the chat completions URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithReferer sets the HTTP-Referer header.
func WithReferer(referer string) Option {
	return func(c *Client) {
		c.referer = strings.TrimSpace(referer)
	}
}

// WithTitle sets the X-Title header. An empty title omits the header.
func WithTitle(title string) Option {
	return func(c *Client) {
		c.title = strings.TrimSpace(title)
	}
}

// WithLogger sets the fallback logger. A logger stored in the request context
// takes precedence.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSleeper overrides how backoff delays are waited out.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) {
		if s != nil {
			c.sleep = s
		}
	}
}

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithObserver reports attempt and result metrics to o.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithExpectedField changes the payload field that marks a direct response
// and holds the flashcards.
func WithExpectedField(field string) Option {
	return func(c *Client) {
		if field = strings.TrimSpace(field); field != "" {
			c.expectedField = field
		}
	}
}

// NewClient builds a client. override is merged over DefaultConfig.
func NewClient(apiKey string, override *ConfigUpdate, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		retry:         DefaultRetryPolicy(),
		sleep:         SleepContext,
		logger:        slog.Default(),
		expectedField: DefaultExpectedField,
		endpoint:      DefaultEndpoint,
		title:         DefaultTitle,
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.Background()
	if c.apiKey == "" {
		return nil, c.fail(ctx, newError(KindMissingAPIKey, "API key is required", nil))
	}

	cfg := DefaultConfig()
	if override != nil {
		cfg = cfg.Merge(*override)
	}
	if err := cfg.Validate(); err != nil {
		return nil, c.fail(ctx, err)
	}
	c.cfg.Store(&cfg)

	if c.transport == nil {
		c.transport = &httpTransport{
			endpoint: c.endpoint,
			apiKey:   c.apiKey,
			referer:  c.referer,
			title:    c.title,
			client:   c.httpClient,
		}
	}
	return c, nil
}

// Configuration returns a deep copy of the current configuration.
func (c *Client) Configuration() GenerationConfig {
	return c.cfg.Load().Clone()
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Load().ModelName
}

// SetConfiguration merges u into the current configuration. Requests already
// in flight keep the configuration they started with.
func (c *Client) SetConfiguration(u ConfigUpdate) error {
	for {
		current := c.cfg.Load()
		next := current.Merge(u)
		if err := next.Validate(); err != nil {
			return c.fail(context.Background(), err)
		}
		if c.cfg.CompareAndSwap(current, &next) {
			return nil
		}
	}
}

// SendRequest generates flashcards from userInput.
func (c *Client) SendRequest(ctx context.Context, userInput string) ([]Flashcard, error) {
	payload, err := c.complete(ctx, userInput)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	cards, err := extractFlashcards(payload, c.expectedField)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	return cards, nil
}

// Complete runs the request pipeline and returns the canonical payload
// without extracting flashcards.
func (c *Client) Complete(ctx context.Context, userInput string) (any, error) {
	payload, err := c.complete(ctx, userInput)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	return payload, nil
}

func (c *Client) complete(ctx context.Context, userInput string) (any, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, newError(KindMissingUserInput, "User input is required", nil)
	}

	cfg := c.cfg.Load()
	payload := buildPayload(cfg, userInput)
	normalizer := Normalizer{
		ExpectedField: c.expectedField,
		PlainText:     !cfg.ResponseFormat.IsJSON(),
	}
	schema := cfg.ResponseFormat.StrictSchema()
	log := logger.FromContextOrDefault(ctx, c.logger)

	retrier := Retrier{Policy: c.retry, Sleep: c.sleep, Logger: log}
	var result any
	err := retrier.Do(ctx, func(ctx context.Context, attempt int) error {
		start := time.Now()
		out, err := c.attempt(ctx, payload, normalizer, schema)
		c.observeAttempt(cfg.ModelName, err, time.Since(start))
		if err != nil {
			return err
		}
		log.DebugContext(ctx, "Chat completion succeeded",
			"attempt", attempt,
			"model", cfg.ModelName)
		result = out
		return nil
	})

	if c.observer != nil {
		code := "OK"
		if se, ok := AsServiceError(err); ok {
			code = se.Code()
		}
		c.observer.ObserveResult(cfg.ModelName, code)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) attempt(ctx context.Context, payload RequestPayload, n Normalizer, schema map[string]*SchemaNode) (any, error) {
	raw, err := c.transport.Send(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !raw.OK() {
		return nil, apiError(raw.StatusCode, decodeErrorBody(raw.Body))
	}

	var decoded any
	if err := json.Unmarshal(raw.Body, &decoded); err != nil {
		return nil, wrapError(KindJSONParse, "Failed to parse JSON response",
			map[string]any{"body": string(raw.Body)}, err)
	}

	canonical, envelope, err := n.Normalize(decoded)
	if err != nil {
		return nil, err
	}
	logger.FromContextOrDefault(ctx, c.logger).DebugContext(ctx, "Normalized provider response",
		"envelope", envelope.String())

	if schema != nil {
		return Validate(canonical, schema)
	}
	return canonical, nil
}

func (c *Client) observeAttempt(model string, err error, d time.Duration) {
	if c.observer == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeTerminal
		if se, ok := AsServiceError(err); !ok || se.Retryable() {
			outcome = OutcomeRetryable
		}
		if isContextErr(err) {
			outcome = OutcomeTerminal
		}
	}
	c.observer.ObserveAttempt(model, outcome, d)
}

// fail logs err once and returns it.
func (c *Client) fail(ctx context.Context, err error) error {
	log := logger.FromContextOrDefault(ctx, c.logger)
	se, ok := AsServiceError(err)
	if !ok {
		log.ErrorContext(ctx, "OpenRouter request failed",
			"error", redact.Secrets(err.Error(), c.apiKey))
		return err
	}

	attrs := []any{
		"code", se.Code(),
		"message", redact.Secrets(se.Message, c.apiKey),
	}
	if se.Details != nil {
		attrs = append(attrs, "details", redact.Value(se.Details, c.apiKey))
	}
	if se.Err != nil {
		attrs = append(attrs, "cause", redact.Secrets(se.Err.Error(), c.apiKey))
	}
	log.ErrorContext(ctx, "OpenRouter request failed", attrs...)
	return err
}

func extractFlashcards(payload any, field string) ([]Flashcard, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, newError(KindResponseParsing, "Error parsing API response",
			map[string]any{"reason": "payload is not an object"})
	}
	items, ok := obj[field].([]any)
	if !ok || len(items) == 0 {
		return nil, newError(KindResponseParsing, "Error parsing API response",
			map[string]any{"reason": "missing or empty " + field})
	}

	cards := make([]Flashcard, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, newError(KindResponseParsing, "Error parsing API response",
				map[string]any{"reason": "flashcard is not an object", "index": i})
		}
		front, frontOK := m["front"].(string)
		back, backOK := m["back"].(string)
		if !frontOK || !backOK {
			return nil, newError(KindResponseParsing, "Error parsing API response",
				map[string]any{"reason": "flashcard front and back must be strings", "index": i})
		}
		cards = append(cards, Flashcard{Front: front, Back: back})
	}
	return cards, nil
}
