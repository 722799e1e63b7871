package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
)

// FlashcardStore persists user flashcards. Every read and write is scoped to
// the owning user; another user's card behaves as if it did not exist.
type FlashcardStore interface {
	// CreateMultiple inserts all cards in one statement. Run it inside
	// RunInTransaction when other writes must commit with it.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID returns ErrFlashcardNotFound when the card does not exist.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error)

	// List returns one page of the user's cards, newest first, and the total count.
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*domain.Flashcard, int, error)

	// Update stores front, back, source and updated_at of an existing card.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a card. Returns ErrFlashcardNotFound when nothing was deleted.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) FlashcardStore
}
