package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX abstracts *sql.DB and *sql.Tx so stores run the same queries inside
// and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Page size limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrInvalidPage is returned by NewPage for out-of-range values.
var ErrInvalidPage = errors.New("invalid page")

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage validates a page number (>= 1) and size (1..MaxPageSize).
func NewPage(number, size int) (Page, error) {
	if number < 1 {
		return Page{}, fmt.Errorf("%w: page must be at least 1", ErrInvalidPage)
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidPage, MaxPageSize)
	}
	return Page{Number: number, Size: size}, nil
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}
