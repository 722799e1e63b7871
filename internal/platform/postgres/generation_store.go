package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/store"
)

const generationColumns = "id, user_id, model, source_text_hash, source_text_length, generated_count, generation_duration, created_at, updated_at"

// PostgresGenerationStore implements store.GenerationStore.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// NewPostgresGenerationStore creates a generation store on db.
func NewPostgresGenerationStore(db store.DBTX, log *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresGenerationStore{
		db:     db,
		logger: log.With(slog.String("component", "generation_store")),
	}
}

// WithTx implements store.GenerationStore.
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{db: tx, logger: s.logger}
}

// Create implements store.GenerationStore.
func (s *PostgresGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO generations ("+generationColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		g.ID, g.UserID, g.Model, g.SourceTextHash, g.SourceTextLength,
		g.GeneratedCount, g.DurationMS, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert generation",
			"generation_id", g.ID,
			"error", err)
		return store.NewStoreError("generation", "create", "insert failed", MapError(err))
	}
	return nil
}

// GetByID implements store.GenerationStore.
func (s *PostgresGenerationStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+generationColumns+" FROM generations WHERE id = $1 AND user_id = $2", id, userID)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrGenerationNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get generation",
			"generation_id", id,
			"error", err)
		return nil, store.NewStoreError("generation", "get", "query failed", MapError(err))
	}
	return g, nil
}

// List implements store.GenerationStore.
func (s *PostgresGenerationStore) List(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Generation, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM generations WHERE user_id = $1", userID).Scan(&total); err != nil {
		log.Error("failed to count generations", "error", err)
		return nil, 0, store.NewStoreError("generation", "list", "count failed", MapError(err))
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+generationColumns+` FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, userID, page.Size, page.Offset())
	if err != nil {
		log.Error("failed to list generations", "error", err)
		return nil, 0, store.NewStoreError("generation", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	generations := make([]*domain.Generation, 0, page.Size)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, 0, store.NewStoreError("generation", "list", "scan failed", err)
		}
		generations = append(generations, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("generation", "list", "row iteration failed", MapError(err))
	}
	return generations, total, nil
}

func scanGeneration(row rowScanner) (*domain.Generation, error) {
	var g domain.Generation
	err := row.Scan(&g.ID, &g.UserID, &g.Model, &g.SourceTextHash, &g.SourceTextLength,
		&g.GeneratedCount, &g.DurationMS, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
