package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/store"
)

// FlashcardStore is an in-memory store.FlashcardStore. Set Err to make
// every call fail.
type FlashcardStore struct {
	Err error

	mu    sync.Mutex
	cards map[uuid.UUID]domain.Flashcard
}

var _ store.FlashcardStore = (*FlashcardStore)(nil)

// NewFlashcardStore creates an empty FlashcardStore.
func NewFlashcardStore() *FlashcardStore {
	return &FlashcardStore{cards: make(map[uuid.UUID]domain.Flashcard)}
}

func (s *FlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, c := range cards {
		if _, ok := s.cards[c.ID]; ok {
			return store.ErrDuplicate
		}
	}
	for _, c := range cards {
		s.cards[c.ID] = *c
	}
	return nil
}

func (s *FlashcardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrFlashcardNotFound
	}
	return &c, nil
}

func (s *FlashcardStore) List(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Flashcard, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var owned []*domain.Flashcard
	for _, c := range s.cards {
		if c.UserID == userID {
			c := c
			owned = append(owned, &c)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID.String() < owned[j].ID.String()
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return paginate(owned, page), len(owned), nil
}

func (s *FlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.cards[card.ID]
	if !ok || existing.UserID != card.UserID {
		return store.ErrFlashcardNotFound
	}
	s.cards[card.ID] = *card
	return nil
}

func (s *FlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return store.ErrFlashcardNotFound
	}
	delete(s.cards, id)
	return nil
}

// WithTx returns the store itself.
func (s *FlashcardStore) WithTx(*sql.Tx) store.FlashcardStore { return s }

// Len returns the number of stored cards.
func (s *FlashcardStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// GenerationStore is an in-memory store.GenerationStore.
type GenerationStore struct {
	Err error

	mu          sync.Mutex
	generations map[uuid.UUID]domain.Generation
}

var _ store.GenerationStore = (*GenerationStore)(nil)

// NewGenerationStore creates an empty GenerationStore.
func NewGenerationStore() *GenerationStore {
	return &GenerationStore{generations: make(map[uuid.UUID]domain.Generation)}
}

func (s *GenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.generations[g.ID] = *g
	return nil
}

func (s *GenerationStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	g, ok := s.generations[id]
	if !ok || g.UserID != userID {
		return nil, store.ErrGenerationNotFound
	}
	return &g, nil
}

func (s *GenerationStore) List(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Generation, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var owned []*domain.Generation
	for _, g := range s.generations {
		if g.UserID == userID {
			g := g
			owned = append(owned, &g)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	return paginate(owned, page), len(owned), nil
}

// WithTx returns the store itself.
func (s *GenerationStore) WithTx(*sql.Tx) store.GenerationStore { return s }

// All returns every stored generation.
func (s *GenerationStore) All() []domain.Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Generation, 0, len(s.generations))
	for _, g := range s.generations {
		out = append(out, g)
	}
	return out
}

// ErrorLogStore is an in-memory store.GenerationErrorLogStore.
type ErrorLogStore struct {
	Err error

	mu      sync.Mutex
	entries []domain.GenerationErrorLog
}

var _ store.GenerationErrorLogStore = (*ErrorLogStore)(nil)

// NewErrorLogStore creates an empty ErrorLogStore.
func NewErrorLogStore() *ErrorLogStore {
	return &ErrorLogStore{}
}

func (s *ErrorLogStore) Create(ctx context.Context, e *domain.GenerationErrorLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.entries = append(s.entries, *e)
	return nil
}

func (s *ErrorLogStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.GenerationErrorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, e := range s.entries {
		if e.ID == id && e.UserID == userID {
			e := e
			return &e, nil
		}
	}
	return nil, store.ErrGenerationErrorLogNotFound
}

func (s *ErrorLogStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationErrorLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []*domain.GenerationErrorLog
	for i := len(s.entries) - 1; i >= 0; i-- {
		if e := s.entries[i]; e.UserID == userID {
			out = append(out, &e)
		}
	}
	return out, nil
}

// All returns every stored entry in insertion order.
func (s *ErrorLogStore) All() []domain.GenerationErrorLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GenerationErrorLog(nil), s.entries...)
}

func paginate[T any](items []T, page store.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if page.Size <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
