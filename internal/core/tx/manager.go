// Package tx defines the unit-of-work contract services depend on.
// Implementations live in infrastructure/storage (postgres, memory).
package tx

import (
	"context"
)

// Manager runs a function inside one store transaction.
//
// If fn returns an error the transaction is rolled back and the error is
// returned unchanged; otherwise it is committed. A call made with a context
// that already carries a transaction joins it instead of opening a new one,
// so services can compose (purchase creation calls the product stock update).
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
