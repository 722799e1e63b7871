package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/openrouter"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// SendRequestFn overrides Cards and Err when set.
	SendRequestFn func(ctx context.Context, sourceText string) ([]openrouter.Flashcard, error)

	Cards     []openrouter.Flashcard
	Err       error
	ModelName string

	mu    sync.Mutex
	calls []string
}

var _ generation.Generator = (*MockGenerator)(nil)

// SendRequest implements generation.Generator.
func (m *MockGenerator) SendRequest(ctx context.Context, sourceText string) ([]openrouter.Flashcard, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sourceText)
	m.mu.Unlock()

	if m.SendRequestFn != nil {
		return m.SendRequestFn(ctx, sourceText)
	}
	return m.Cards, m.Err
}

// Model implements generation.Generator.
func (m *MockGenerator) Model() string {
	if m.ModelName == "" {
		return "mock/model"
	}
	return m.ModelName
}

// Calls returns the source texts passed to SendRequest.
func (m *MockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewPlaceholderGenerator returns a generator that makes count flashcards
// from the start of the source text without calling any provider.
func NewPlaceholderGenerator(count int) *MockGenerator {
	return &MockGenerator{
		ModelName: "placeholder",
		SendRequestFn: func(ctx context.Context, sourceText string) ([]openrouter.Flashcard, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			excerpt := strings.Join(strings.Fields(sourceText), " ")
			if utf8.RuneCountInString(excerpt) > 80 {
				excerpt = string([]rune(excerpt)[:80])
			}
			cards := make([]openrouter.Flashcard, 0, count)
			for i := 1; i <= count; i++ {
				cards = append(cards, openrouter.Flashcard{
					Front: fmt.Sprintf("Placeholder question %d", i),
					Back:  excerpt,
				})
			}
			return cards, nil
		},
	}
}
