package mocks

import (
	"context"

	"github.com/phrazzld/store-rating-api/internal/store"
)

// MockTransactor implements store.Transactor without a database.
type MockTransactor struct {
	// RunInTxFn overrides the default behavior when set.
	RunInTxFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts RunInTx invocations.
	Calls int
}

// RunInTx runs fn with a nil transaction and returns its error.
func (m *MockTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	return fn(ctx, nil)
}
