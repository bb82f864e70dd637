package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the record submitted to the expense ledger. Amounts are carried
// as decimals so ledger backends stay currency-agnostic even though candidates
// only ever produce whole currency units.
type Expense struct {
	ID          string
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	GroupID     string
	UserID      string
	Fingerprint string
}

// ExpenseFromCandidate builds the ledger expense for an accepted candidate.
// The fingerprint is computed from the candidate as it stands at acceptance
// time, so user edits made before accepting are part of the identity.
func ExpenseFromCandidate(c ExpenseCandidate, groupID, userID string) Expense {
	return Expense{
		Amount:      decimal.NewFromInt(c.Amount),
		Category:    c.Category,
		Description: c.Description,
		Date:        c.Date,
		GroupID:     groupID,
		UserID:      userID,
		Fingerprint: c.Fingerprint(),
	}
}
