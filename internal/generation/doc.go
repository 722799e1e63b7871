// Package generation orchestrates flashcard generation runs: it sends user
// source text to an AI Generator, records each successful run as a
// Generation and each failed run as a GenerationErrorLog, and returns the
// generated cards as proposals the user can accept or edit.
package generation
