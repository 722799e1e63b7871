// Package cache implements the generation cache on Redis. Cached values are
// the JSON encoded flashcards of one generation, keyed by model and source
// text hash, and expire after a configured TTL.
package cache
