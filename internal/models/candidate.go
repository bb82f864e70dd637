package models

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// CategoryUncategorized is the sentinel category assigned when no keyword matches.
const CategoryUncategorized = "기타"

// MerchantUnknown is the default merchant label when no merchant pattern matches.
const MerchantUnknown = "기타"

// ExpenseCandidate is a parsed payment notification: the structured expense
// a message body was pattern-matched into. A candidate exists only if an
// amount was extracted; every other field degrades to a default.
type ExpenseCandidate struct {
	Amount      int64     // whole currency units, always > 0
	Description string    // detected issuer name combined with the merchant guess
	Merchant    string
	Issuer      string
	Category    string
	Date        time.Time // observation time of the source message, not parsed from its text
	Confidence  float64   // [0,1], additive scoring clamped to 1.0
}

// Fingerprint derives the dedup identity of a candidate. Two candidates with
// the same amount, description, and day are the same logical expense no
// matter which message produced them; the time-of-day component is discarded.
func (c *ExpenseCandidate) Fingerprint() string {
	data := fmt.Sprintf("%d|%s|%s",
		c.Amount,
		c.Description,
		c.Date.Format("2006-01-02"))
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}
