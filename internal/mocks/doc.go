// Package mocks provides shared test doubles: a scriptable AI generator, a
// placeholder generator, in-memory stores, a transaction runner, a cache and
// a token verifier.
//
// Usage:
//
//	gen := &mocks.MockGenerator{Cards: []openrouter.Flashcard{{Front: "Q", Back: "A"}}}
//	flashcards := mocks.NewFlashcardStore()
//	svc, _ := generation.NewService(gen, mocks.NewGenerationStore(), mocks.NewErrorLogStore())
package mocks
