package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/mocks"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	flashcards  *mocks.FlashcardStore
	generations *mocks.GenerationStore
	tx          *mocks.TxRunner
	svc         service.FlashcardService
	userID      uuid.UUID
	generation  *domain.Generation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		flashcards:  mocks.NewFlashcardStore(),
		generations: mocks.NewGenerationStore(),
		tx:          &mocks.TxRunner{},
		userID:      uuid.New(),
	}
	svc, err := service.NewFlashcardService(f.flashcards, f.generations, f.tx, nil)
	require.NoError(t, err)
	f.svc = svc

	g, err := domain.NewGeneration(f.userID, "m", "source text", 2, time.Second)
	require.NoError(t, err)
	require.NoError(t, f.generations.Create(context.Background(), g))
	f.generation = g
	return f
}

func TestNewFlashcardServiceValidatesDependencies(t *testing.T) {
	_, err := service.NewFlashcardService(nil, mocks.NewGenerationStore(), &mocks.TxRunner{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewFlashcardService(mocks.NewFlashcardStore(), nil, &mocks.TxRunner{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewFlashcardService(mocks.NewFlashcardStore(), mocks.NewGenerationStore(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateFlashcards(t *testing.T) {
	f := newFixture(t)
	genID := f.generation.ID

	cards, err := f.svc.CreateFlashcards(context.Background(), f.userID, []service.FlashcardInput{
		{Front: "Q1", Back: "A1", Source: domain.SourceAIFull, GenerationID: &genID},
		{Front: "Q2", Back: "A2", Source: domain.SourceAIEdited, GenerationID: &genID},
		{Front: " Q3 ", Back: "A3", Source: domain.SourceManual},
	})
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "Q3", cards[2].Front)
	assert.Equal(t, 3, f.flashcards.Len())
	assert.Equal(t, 1, f.tx.Calls)
}

func TestCreateFlashcardsValidation(t *testing.T) {
	f := newFixture(t)
	genID := f.generation.ID
	foreign := uuid.New()

	tests := []struct {
		name    string
		inputs  []service.FlashcardInput
		wantErr error
	}{
		{name: "empty", inputs: nil, wantErr: service.ErrNoFlashcards},
		{name: "front too long", inputs: []service.FlashcardInput{
			{Front: strings.Repeat("x", domain.MaxFrontLength+1), Back: "A", Source: domain.SourceManual},
		}, wantErr: domain.ErrValidation},
		{name: "back too long", inputs: []service.FlashcardInput{
			{Front: "Q", Back: strings.Repeat("x", domain.MaxBackLength+1), Source: domain.SourceManual},
		}, wantErr: domain.ErrValidation},
		{name: "unknown source", inputs: []service.FlashcardInput{
			{Front: "Q", Back: "A", Source: "imported"},
		}, wantErr: domain.ErrValidation},
		{name: "ai without generation", inputs: []service.FlashcardInput{
			{Front: "Q", Back: "A", Source: domain.SourceAIFull},
		}, wantErr: domain.ErrValidation},
		{name: "manual with generation", inputs: []service.FlashcardInput{
			{Front: "Q", Back: "A", Source: domain.SourceManual, GenerationID: &genID},
		}, wantErr: domain.ErrValidation},
		{name: "unknown generation", inputs: []service.FlashcardInput{
			{Front: "Q", Back: "A", Source: domain.SourceAIFull, GenerationID: &foreign},
		}, wantErr: service.ErrUnknownGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateFlashcards(context.Background(), f.userID, tt.inputs)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.flashcards.Len(), "nothing is stored")
		})
	}
}

func TestCreateFlashcardsRejectsOtherUsersGeneration(t *testing.T) {
	f := newFixture(t)
	genID := f.generation.ID

	_, err := f.svc.CreateFlashcards(context.Background(), uuid.New(), []service.FlashcardInput{
		{Front: "Q", Back: "A", Source: domain.SourceAIFull, GenerationID: &genID},
	})
	assert.ErrorIs(t, err, service.ErrUnknownGeneration)
}

func TestCreateFlashcardsCommitFailure(t *testing.T) {
	f := newFixture(t)
	f.tx.Err = store.ErrTransactionFailed

	_, err := f.svc.CreateFlashcards(context.Background(), f.userID, []service.FlashcardInput{
		{Front: "Q", Back: "A", Source: domain.SourceManual},
	})
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
	var svcErr *service.FlashcardServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "create_flashcards", svcErr.Operation)
}

func TestGetUpdateDeleteFlashcard(t *testing.T) {
	f := newFixture(t)
	genID := f.generation.ID
	cards, err := f.svc.CreateFlashcards(context.Background(), f.userID, []service.FlashcardInput{
		{Front: "Q", Back: "A", Source: domain.SourceAIFull, GenerationID: &genID},
	})
	require.NoError(t, err)
	id := cards[0].ID

	got, err := f.svc.GetFlashcard(context.Background(), f.userID, id)
	require.NoError(t, err)
	assert.Equal(t, "Q", got.Front)

	_, err = f.svc.GetFlashcard(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, store.ErrFlashcardNotFound)

	updated, err := f.svc.UpdateFlashcard(context.Background(), f.userID, id, "Q edited", "A")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceAIEdited, updated.Source)

	_, err = f.svc.UpdateFlashcard(context.Background(), f.userID, id, "", "A")
	assert.ErrorIs(t, err, domain.ErrValidation)
	stored, err := f.svc.GetFlashcard(context.Background(), f.userID, id)
	require.NoError(t, err)
	assert.Equal(t, "Q edited", stored.Front, "invalid update leaves the card unchanged")

	assert.ErrorIs(t, f.svc.DeleteFlashcard(context.Background(), uuid.New(), id), store.ErrFlashcardNotFound)
	require.NoError(t, f.svc.DeleteFlashcard(context.Background(), f.userID, id))
	assert.ErrorIs(t, f.svc.DeleteFlashcard(context.Background(), f.userID, id), store.ErrFlashcardNotFound)
}

func TestListFlashcards(t *testing.T) {
	f := newFixture(t)
	inputs := make([]service.FlashcardInput, 0, 5)
	for i := 0; i < 5; i++ {
		inputs = append(inputs, service.FlashcardInput{Front: "Q", Back: "A", Source: domain.SourceManual})
	}
	_, err := f.svc.CreateFlashcards(context.Background(), f.userID, inputs)
	require.NoError(t, err)

	cards, total, err := f.svc.ListFlashcards(context.Background(), f.userID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, cards, 2)

	cards, total, err = f.svc.ListFlashcards(context.Background(), f.userID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, cards)

	_, _, err = f.svc.ListFlashcards(context.Background(), f.userID, 1, 0)
	assert.ErrorIs(t, err, store.ErrInvalidPage)

	f.flashcards.Err = errors.New("connection reset")
	_, _, err = f.svc.ListFlashcards(context.Background(), f.userID, 1, 10)
	assert.Error(t, err)
}
