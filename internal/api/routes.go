package api

import "github.com/go-chi/chi/v5"

// Register mounts the generation and flashcard routes on r. Authentication is
// applied by the caller.
func Register(r chi.Router, generations *GenerationHandler, flashcards *FlashcardHandler) {
	r.Route("/generations", func(r chi.Router) {
		r.Post("/", generations.CreateGeneration)
		r.Get("/", generations.ListGenerations)
		r.Get("/{id}", generations.GetGeneration)
	})
	r.Route("/generation-error-logs", func(r chi.Router) {
		r.Get("/", generations.ListErrorLogs)
		r.Get("/{id}", generations.GetErrorLog)
	})
	r.Route("/flashcards", func(r chi.Router) {
		r.Post("/", flashcards.CreateFlashcards)
		r.Get("/", flashcards.ListFlashcards)
		r.Get("/{id}", flashcards.GetFlashcard)
		r.Put("/{id}", flashcards.UpdateFlashcard)
		r.Delete("/{id}", flashcards.DeleteFlashcard)
	})
}
