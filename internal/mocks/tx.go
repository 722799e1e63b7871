package mocks

import (
	"context"

	"github.com/phrazzld/flashgen/internal/store"
)

// TxRunner runs functions with a nil *sql.Tx. Pair it with the in-memory
// stores, whose WithTx ignores the transaction.
type TxRunner struct {
	// Err is returned after fn succeeds, simulating a failed commit.
	Err   error
	Calls int
}

var _ store.TxRunner = (*TxRunner)(nil)

// RunInTransaction implements store.TxRunner.
func (r *TxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	r.Calls++
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return r.Err
}
