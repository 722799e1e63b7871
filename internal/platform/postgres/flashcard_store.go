package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/store"
)

const flashcardColumns = "id, user_id, generation_id, front, back, source, created_at, updated_at"

// PostgresFlashcardStore implements store.FlashcardStore.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// NewPostgresFlashcardStore creates a flashcard store on db, which may be a
// *sql.DB or a *sql.Tx. A nil logger falls back to slog.Default.
func NewPostgresFlashcardStore(db store.DBTX, log *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresFlashcardStore{
		db:     db,
		logger: log.With(slog.String("component", "flashcard_store")),
	}
}

// WithTx implements store.FlashcardStore.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// CreateMultiple implements store.FlashcardStore.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return store.NewStoreError("flashcard", "create", "invalid flashcard",
				fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
		}
	}

	const perRow = 8
	var b strings.Builder
	b.WriteString("INSERT INTO flashcards (" + flashcardColumns + ") VALUES ")
	args := make([]any, 0, len(cards)*perRow)
	for i, card := range cards {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * perRow
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8)
		args = append(args,
			card.ID,
			card.UserID,
			nullableUUID(card.GenerationID),
			card.Front,
			card.Back,
			string(card.Source),
			card.CreatedAt,
			card.UpdatedAt,
		)
	}

	if _, err := s.db.ExecContext(ctx, b.String(), args...); err != nil {
		log.Error("failed to insert flashcards", "count", len(cards), "error", err)
		return store.NewStoreError("flashcard", "create", "insert failed", MapError(err))
	}

	log.Debug("flashcards created", "count", len(cards))
	return nil
}

// GetByID implements store.FlashcardStore.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error) {
	query := "SELECT " + flashcardColumns + " FROM flashcards WHERE id = $1 AND user_id = $2"
	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrFlashcardNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get flashcard",
			"flashcard_id", id,
			"error", err)
		return nil, store.NewStoreError("flashcard", "get", "query failed", MapError(err))
	}
	return card, nil
}

// List implements store.FlashcardStore.
func (s *PostgresFlashcardStore) List(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM flashcards WHERE user_id = $1", userID).Scan(&total); err != nil {
		log.Error("failed to count flashcards", "error", err)
		return nil, 0, store.NewStoreError("flashcard", "list", "count failed", MapError(err))
	}

	query := "SELECT " + flashcardColumns + ` FROM flashcards
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := s.db.QueryContext(ctx, query, userID, page.Size, page.Offset())
	if err != nil {
		log.Error("failed to list flashcards", "error", err)
		return nil, 0, store.NewStoreError("flashcard", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0, page.Size)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row", "error", err)
			return nil, 0, store.NewStoreError("flashcard", "list", "scan failed", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("flashcard", "list", "row iteration failed", MapError(err))
	}
	return cards, total, nil
}

// Update implements store.FlashcardStore.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return store.NewStoreError("flashcard", "update", "invalid flashcard",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET front = $1, back = $2, source = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`,
		card.Front, card.Back, string(card.Source), card.UpdatedAt, card.ID, card.UserID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update flashcard",
			"flashcard_id", card.ID,
			"error", err)
		return store.NewStoreError("flashcard", "update", "update failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrFlashcardNotFound)
}

// Delete implements store.FlashcardStore.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM flashcards WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete flashcard",
			"flashcard_id", id,
			"error", err)
		return store.NewStoreError("flashcard", "delete", "delete failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrFlashcardNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		card   domain.Flashcard
		genID  uuid.NullUUID
		source string
	)
	if err := row.Scan(&card.ID, &card.UserID, &genID, &card.Front, &card.Back,
		&source, &card.CreatedAt, &card.UpdatedAt); err != nil {
		return nil, err
	}
	card.Source = domain.FlashcardSource(source)
	if genID.Valid {
		id := genID.UUID
		card.GenerationID = &id
	}
	return &card, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
