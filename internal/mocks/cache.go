package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/openrouter"
)

// Cache is an in-memory generation.Cache.
type Cache struct {
	GetErr error
	SetErr error

	mu      sync.Mutex
	entries map[string][]openrouter.Flashcard
}

var _ generation.Cache = (*Cache)(nil)

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]openrouter.Flashcard)}
}

func (c *Cache) Get(ctx context.Context, key string) ([]openrouter.Flashcard, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	cards, ok := c.entries[key]
	return cards, ok, nil
}

func (c *Cache) Set(ctx context.Context, key string, cards []openrouter.Flashcard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	c.entries[key] = append([]openrouter.Flashcard(nil), cards...)
	return nil
}

// Keys returns the stored keys.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
