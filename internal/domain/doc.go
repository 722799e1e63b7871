// Package domain contains the business entities of the flashcard service:
// user-owned flashcards, the record of each AI generation run and the log of
// failed generations. Entities validate themselves on construction and are
// independent of storage and transport.
package domain
