package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/store"
)

// FlashcardInput is one card of a bulk create request.
type FlashcardInput struct {
	Front        string
	Back         string
	Source       domain.FlashcardSource
	GenerationID *uuid.UUID
}

// FlashcardService manages a user's flashcards.
type FlashcardService interface {
	// CreateFlashcards validates and stores all inputs atomically. AI cards
	// must reference one of the user's generations.
	CreateFlashcards(ctx context.Context, userID uuid.UUID, inputs []FlashcardInput) ([]*domain.Flashcard, error)

	// ListFlashcards returns one page of cards, newest first, and the total.
	ListFlashcards(ctx context.Context, userID uuid.UUID, page, limit int) ([]*domain.Flashcard, int, error)

	GetFlashcard(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error)

	// UpdateFlashcard replaces both sides. An unedited AI card becomes ai-edited.
	UpdateFlashcard(ctx context.Context, userID, id uuid.UUID, front, back string) (*domain.Flashcard, error)

	DeleteFlashcard(ctx context.Context, userID, id uuid.UUID) error
}

type flashcardServiceImpl struct {
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	tx          store.TxRunner
	logger      *slog.Logger
}

var _ FlashcardService = (*flashcardServiceImpl)(nil)

// NewFlashcardService creates a FlashcardService. It returns an error if any
// of the required dependencies are nil.
func NewFlashcardService(
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	tx store.TxRunner,
	log *slog.Logger,
) (FlashcardService, error) {
	if flashcards == nil {
		return nil, domain.NewValidationError("flashcards", "cannot be nil")
	}
	if generations == nil {
		return nil, domain.NewValidationError("generations", "cannot be nil")
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &flashcardServiceImpl{
		flashcards:  flashcards,
		generations: generations,
		tx:          tx,
		logger:      log.With(slog.String("component", "flashcard_service")),
	}, nil
}

func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputs []FlashcardInput,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if len(inputs) == 0 {
		return nil, ErrNoFlashcards
	}

	cards := make([]*domain.Flashcard, 0, len(inputs))
	generationIDs := make(map[uuid.UUID]struct{})
	for i, in := range inputs {
		card, err := domain.NewFlashcard(userID, in.Front, in.Back, in.Source, in.GenerationID)
		if err != nil {
			return nil, NewFlashcardServiceError("create_flashcards",
				fmt.Sprintf("flashcard %d is invalid", i), err)
		}
		if card.GenerationID != nil {
			generationIDs[*card.GenerationID] = struct{}{}
		}
		cards = append(cards, card)
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		generations := s.generations.WithTx(tx)
		for id := range generationIDs {
			if _, err := generations.GetByID(ctx, userID, id); err != nil {
				if store.IsNotFoundError(err) {
					return fmt.Errorf("%w: %s", ErrUnknownGeneration, id)
				}
				return err
			}
		}
		return s.flashcards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		if !errors.Is(err, ErrUnknownGeneration) {
			log.Error("failed to create flashcards",
				"count", len(cards),
				"error", err)
		}
		return nil, NewFlashcardServiceError("create_flashcards", "failed to save flashcards", err)
	}

	log.Info("flashcards created", "count", len(cards))
	return cards, nil
}

func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	page, limit int,
) ([]*domain.Flashcard, int, error) {
	p, err := store.NewPage(page, limit)
	if err != nil {
		return nil, 0, err
	}
	cards, total, err := s.flashcards.List(ctx, userID, p)
	if err != nil {
		return nil, 0, NewFlashcardServiceError("list_flashcards", "failed to list flashcards", err)
	}
	return cards, total, nil
}

func (s *flashcardServiceImpl) GetFlashcard(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error) {
	card, err := s.flashcards.GetByID(ctx, userID, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewFlashcardServiceError("get_flashcard", "flashcard not found", store.ErrFlashcardNotFound)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get flashcard",
			"flashcard_id", id,
			"error", err)
		return nil, NewFlashcardServiceError("get_flashcard", "failed to get flashcard", err)
	}
	return card, nil
}

func (s *flashcardServiceImpl) UpdateFlashcard(
	ctx context.Context,
	userID, id uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	card, err := s.GetFlashcard(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := card.Update(front, back); err != nil {
		return nil, NewFlashcardServiceError("update_flashcard", "invalid flashcard content", err)
	}
	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, NewFlashcardServiceError("update_flashcard", "failed to save flashcard", err)
	}
	return card, nil
}

func (s *flashcardServiceImpl) DeleteFlashcard(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.flashcards.Delete(ctx, userID, id); err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete flashcard",
				"flashcard_id", id,
				"error", err)
		}
		return NewFlashcardServiceError("delete_flashcard", "failed to delete flashcard", err)
	}
	return nil
}
