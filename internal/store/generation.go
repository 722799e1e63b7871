package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
)

// GenerationStore persists records of successful generation runs.
type GenerationStore interface {
	Create(ctx context.Context, generation *domain.Generation) error

	// GetByID returns ErrGenerationNotFound when the generation does not
	// exist or belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error)

	// List returns one page of the user's generations, newest first, and the total count.
	List(ctx context.Context, userID uuid.UUID, page Page) ([]*domain.Generation, int, error)

	WithTx(tx *sql.Tx) GenerationStore
}

// GenerationErrorLogStore persists failed generation attempts.
type GenerationErrorLogStore interface {
	Create(ctx context.Context, entry *domain.GenerationErrorLog) error

	// GetByID returns ErrGenerationErrorLogNotFound when the entry does not
	// exist or belongs to another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.GenerationErrorLog, error)

	// ListByUser returns the user's entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationErrorLog, error)
}
