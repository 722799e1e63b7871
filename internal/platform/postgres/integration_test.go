//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to DATABASE_URL and applies the migrations.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, url, PoolConfig{MaxOpenConns: 4})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db, MigrateUp, nil))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// withTx runs fn in a transaction that is always rolled back.
func withTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	fn(tx)
}

func TestIntegrationGenerationAndFlashcards(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	withTx(t, db, func(tx *sql.Tx) {
		generations := NewPostgresGenerationStore(tx, nil)
		cards := NewPostgresFlashcardStore(tx, nil)

		userID := uuid.New()
		g, err := domain.NewGeneration(userID, "openai/gpt-4o-mini", "source text", 2, time.Second)
		require.NoError(t, err)
		require.NoError(t, generations.Create(ctx, g))

		a, err := domain.NewFlashcard(userID, "q1", "a1", domain.SourceAIFull, &g.ID)
		require.NoError(t, err)
		b, err := domain.NewFlashcard(userID, "q2", "a2", domain.SourceManual, nil)
		require.NoError(t, err)
		require.NoError(t, cards.CreateMultiple(ctx, []*domain.Flashcard{a, b}))

		list, total, err := cards.List(ctx, userID, store.Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, list, 2)

		_, err = cards.GetByID(ctx, uuid.New(), a.ID)
		assert.ErrorIs(t, err, store.ErrFlashcardNotFound, "other users cannot see the card")

		require.NoError(t, a.Update("q1 edited", "a1"))
		require.NoError(t, cards.Update(ctx, a))
		got, err := cards.GetByID(ctx, userID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceAIEdited, got.Source)

		require.NoError(t, cards.Delete(ctx, userID, b.ID))
		assert.ErrorIs(t, cards.Delete(ctx, userID, b.ID), store.ErrFlashcardNotFound)
	})
}

func TestIntegrationFlashcardUnknownGeneration(t *testing.T) {
	db := openTestDB(t)

	withTx(t, db, func(tx *sql.Tx) {
		missing := uuid.New()
		card, err := domain.NewFlashcard(uuid.New(), "q", "a", domain.SourceAIFull, &missing)
		require.NoError(t, err)

		err = NewPostgresFlashcardStore(tx, nil).CreateMultiple(context.Background(), []*domain.Flashcard{card})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}
