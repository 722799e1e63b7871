package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/openrouter"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/redact"
	"github.com/phrazzld/flashgen/internal/store"
)

// Result is the outcome of a successful generation run.
type Result struct {
	Generation *domain.Generation         `json:"generation"`
	Flashcards []domain.FlashcardProposal `json:"flashcards"`
}

// ListResult is one page of a user's generations.
type ListResult struct {
	Generations []*domain.Generation
	Total       int
}

// Service runs and records generations.
type Service struct {
	generator   Generator
	generations store.GenerationStore
	errorLogs   store.GenerationErrorLogStore
	cache       Cache
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables reuse of generated cards for identical (model, source) pairs.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for duration measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a generation Service.
func NewService(
	generator Generator,
	generations store.GenerationStore,
	errorLogs store.GenerationErrorLogStore,
	opts ...Option,
) (*Service, error) {
	if generator == nil || generations == nil || errorLogs == nil {
		return nil, fmt.Errorf("%w: generator and stores are required", ErrInvalidConfig)
	}
	s := &Service{
		generator:   generator,
		generations: generations,
		errorLogs:   errorLogs,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "generation_service"))
	return s, nil
}

// Create generates flashcards from sourceText for userID and records the run.
// A failed run is recorded in the error log and returned wrapped in
// ErrGenerationFailed.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, sourceText string) (*Result, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, domain.ErrSourceTextEmpty)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	model := s.generator.Model()
	hash := domain.HashSourceText(sourceText)
	key := CacheKey(model, hash)

	start := s.now()
	cards, cached := s.cached(ctx, log, key)
	if !cached {
		var err error
		cards, err = s.generator.SendRequest(ctx, sourceText)
		if err != nil {
			s.recordFailure(ctx, log, userID, model, sourceText, err)
			return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
	}
	duration := s.now().Sub(start)

	gen, err := domain.NewGeneration(userID, model, sourceText, len(cards), duration)
	if err != nil {
		return nil, fmt.Errorf("failed to build generation: %w", err)
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		log.ErrorContext(ctx, "failed to store generation",
			"generation_id", gen.ID,
			"error", redact.Error(err))
		return nil, fmt.Errorf("failed to store generation: %w", err)
	}

	if !cached {
		s.remember(ctx, log, key, cards)
	}

	proposals := make([]domain.FlashcardProposal, 0, len(cards))
	for _, c := range cards {
		proposals = append(proposals, domain.FlashcardProposal{
			Front:        c.Front,
			Back:         c.Back,
			Source:       domain.SourceAIFull,
			GenerationID: gen.ID,
		})
	}

	log.InfoContext(ctx, "generation completed",
		"generation_id", gen.ID,
		"model", model,
		"generated_count", len(cards),
		"duration_ms", gen.DurationMS,
		"cached", cached)
	return &Result{Generation: gen, Flashcards: proposals}, nil
}

// cached returns the cached cards for key. Cache errors count as misses.
func (s *Service) cached(ctx context.Context, log *slog.Logger, key string) ([]openrouter.Flashcard, bool) {
	if s.cache == nil {
		return nil, false
	}
	cards, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "generation cache lookup failed", "error", redact.Error(err))
		return nil, false
	}
	if ok {
		log.DebugContext(ctx, "generation cache hit", "key", key)
	}
	return cards, ok
}

func (s *Service) remember(ctx context.Context, log *slog.Logger, key string, cards []openrouter.Flashcard) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, cards); err != nil {
		log.WarnContext(ctx, "generation cache store failed", "error", redact.Error(err))
	}
}

func (s *Service) recordFailure(ctx context.Context, log *slog.Logger, userID uuid.UUID, model, sourceText string, cause error) {
	code := ErrorCode(cause)
	message := redact.Error(cause)
	log.ErrorContext(ctx, "generation failed",
		"error_code", code,
		"model", model,
		"error", message)

	entry, err := domain.NewGenerationErrorLog(userID, model, sourceText, code, message)
	if err != nil {
		log.ErrorContext(ctx, "failed to build generation error log", "error", err)
		return
	}
	if err := s.errorLogs.Create(context.WithoutCancel(ctx), entry); err != nil {
		log.ErrorContext(ctx, "failed to store generation error log",
			"error_code", code,
			"error", redact.Error(err))
	}
}

// List returns one page of the user's generations, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, limit int) (*ListResult, error) {
	p, err := store.NewPage(page, limit)
	if err != nil {
		return nil, err
	}
	gens, total, err := s.generations.List(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return &ListResult{Generations: gens, Total: total}, nil
}

// Get returns one of the user's generations.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	return s.generations.GetByID(ctx, userID, id)
}

// ListErrorLogs returns the user's failed generation attempts, newest first.
func (s *Service) ListErrorLogs(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationErrorLog, error) {
	entries, err := s.errorLogs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.GenerationErrorLog{}
	}
	return entries, nil
}

// GetErrorLog returns one of the user's error log entries.
func (s *Service) GetErrorLog(ctx context.Context, userID, id uuid.UUID) (*domain.GenerationErrorLog, error) {
	entry, err := s.errorLogs.GetByID(ctx, userID, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "failed to get generation error log",
			"error", redact.Error(err))
	}
	return entry, err
}
