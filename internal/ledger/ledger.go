// Package ledger provides the expense store the import session submits
// accepted candidates to, with an in-memory implementation for tests and dry
// runs and a SQLite implementation for durable storage.
package ledger

import (
	"context"
	"errors"

	"jaehyun/sms-ledger/internal/models"
)

// ErrDuplicate is returned by Submit when the ledger already holds an
// expense with the same fingerprint. Sessions dedup within themselves; this
// surfaces re-imports across sessions.
var ErrDuplicate = errors.New("expense already recorded")

// Ledger is the external expense store. One Submit call per accepted
// candidate; a failed Submit must leave no trace of the expense.
type Ledger interface {
	// Submit stores one expense and returns its record id.
	Submit(ctx context.Context, expense models.Expense) (string, error)

	// Close releases any underlying resources.
	Close() error
}
