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

const errorLogColumns = "id, user_id, model, source_text_hash, source_text_length, error_code, error_message, created_at"

// PostgresGenerationErrorLogStore implements store.GenerationErrorLogStore.
type PostgresGenerationErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GenerationErrorLogStore = (*PostgresGenerationErrorLogStore)(nil)

// NewPostgresGenerationErrorLogStore creates an error log store on db.
func NewPostgresGenerationErrorLogStore(db store.DBTX, log *slog.Logger) *PostgresGenerationErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresGenerationErrorLogStore{
		db:     db,
		logger: log.With(slog.String("component", "generation_error_log_store")),
	}
}

// Create implements store.GenerationErrorLogStore.
func (s *PostgresGenerationErrorLogStore) Create(ctx context.Context, e *domain.GenerationErrorLog) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO generation_error_logs ("+errorLogColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		e.ID, e.UserID, e.Model, e.SourceTextHash, e.SourceTextLength, e.ErrorCode, e.ErrorMessage, e.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert generation error log",
			"error_code", e.ErrorCode,
			"error", err)
		return store.NewStoreError("generation_error_log", "create", "insert failed", MapError(err))
	}
	return nil
}

// GetByID implements store.GenerationErrorLogStore.
func (s *PostgresGenerationErrorLogStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.GenerationErrorLog, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+errorLogColumns+" FROM generation_error_logs WHERE id = $1 AND user_id = $2", id, userID)
	e, err := scanErrorLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrGenerationErrorLogNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("generation_error_log", "get", "query failed", MapError(err))
	}
	return e, nil
}

// ListByUser implements store.GenerationErrorLogStore.
func (s *PostgresGenerationErrorLogStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationErrorLog, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+errorLogColumns+" FROM generation_error_logs WHERE user_id = $1 ORDER BY created_at DESC, id",
		userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list generation error logs", "error", err)
		return nil, store.NewStoreError("generation_error_log", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.GenerationErrorLog
	for rows.Next() {
		e, err := scanErrorLog(rows)
		if err != nil {
			return nil, store.NewStoreError("generation_error_log", "list", "scan failed", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("generation_error_log", "list", "row iteration failed", MapError(err))
	}
	return entries, nil
}

func scanErrorLog(row rowScanner) (*domain.GenerationErrorLog, error) {
	var e domain.GenerationErrorLog
	err := row.Scan(&e.ID, &e.UserID, &e.Model, &e.SourceTextHash, &e.SourceTextLength,
		&e.ErrorCode, &e.ErrorMessage, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
