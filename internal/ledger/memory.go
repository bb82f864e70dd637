package ledger

import (
	"context"
	"fmt"
	"sync"

	"jaehyun/sms-ledger/internal/models"
)

// MemoryLedger is an in-memory Ledger for tests and dry runs. SubmitErr, when
// set, is consulted before every write so tests can inject failures.
type MemoryLedger struct {
	mu       sync.Mutex
	expenses []models.Expense
	nextID   int

	// SubmitErr is an optional failure hook; a non-nil return aborts the
	// write without recording anything.
	SubmitErr func(expense models.Expense) error
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Submit records the expense and returns a synthetic id.
func (l *MemoryLedger) Submit(_ context.Context, expense models.Expense) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.SubmitErr != nil {
		if err := l.SubmitErr(expense); err != nil {
			return "", err
		}
	}

	l.nextID++
	expense.ID = fmt.Sprintf("mem-%d", l.nextID)
	l.expenses = append(l.expenses, expense)
	return expense.ID, nil
}

// Close is a no-op.
func (l *MemoryLedger) Close() error { return nil }

// Expenses returns a copy of everything submitted so far.
func (l *MemoryLedger) Expenses() []models.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}
