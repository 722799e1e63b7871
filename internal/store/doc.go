// Package store defines the persistence interfaces of the flashcard service
// together with the errors and transaction helpers shared by every
// implementation. The PostgreSQL implementation lives in
// internal/platform/postgres.
package store
