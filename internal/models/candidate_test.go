package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseCandidate_Fingerprint(t *testing.T) {
	base := ExpenseCandidate{
		Amount:      6500,
		Description: "신한카드 스타벅스",
		Date:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		other     ExpenseCandidate
		wantEqual bool
	}{
		{
			name: "identical candidates",
			other: ExpenseCandidate{
				Amount:      6500,
				Description: "신한카드 스타벅스",
				Date:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			},
			wantEqual: true,
		},
		{
			name: "same day different time of day",
			other: ExpenseCandidate{
				Amount:      6500,
				Description: "신한카드 스타벅스",
				Date:        time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC),
			},
			wantEqual: true,
		},
		{
			name: "different day",
			other: ExpenseCandidate{
				Amount:      6500,
				Description: "신한카드 스타벅스",
				Date:        time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
			},
			wantEqual: false,
		},
		{
			name: "different amount",
			other: ExpenseCandidate{
				Amount:      6000,
				Description: "신한카드 스타벅스",
				Date:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			},
			wantEqual: false,
		},
		{
			name: "different description",
			other: ExpenseCandidate{
				Amount:      6500,
				Description: "신한카드 커피빈",
				Date:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			},
			wantEqual: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantEqual {
				assert.Equal(t, base.Fingerprint(), tt.other.Fingerprint())
			} else {
				assert.NotEqual(t, base.Fingerprint(), tt.other.Fingerprint())
			}
		})
	}
}

func TestExpenseFromCandidate(t *testing.T) {
	cand := ExpenseCandidate{
		Amount:      12000,
		Description: "KB국민카드 교촌치킨",
		Category:    "식비",
		Date:        time.Date(2024, 3, 15, 19, 30, 0, 0, time.UTC),
	}

	exp := ExpenseFromCandidate(cand, "group-1", "user-1")

	assert.True(t, exp.Amount.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, "식비", exp.Category)
	assert.Equal(t, "KB국민카드 교촌치킨", exp.Description)
	assert.Equal(t, "group-1", exp.GroupID)
	assert.Equal(t, "user-1", exp.UserID)
	assert.Equal(t, cand.Fingerprint(), exp.Fingerprint)
}
