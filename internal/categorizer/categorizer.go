package categorizer

import (
	"context"

	"jaehyun/sms-ledger/internal/logging"
)

// Categorizer runs a fixed chain of strategies and returns the first match.
// Strategy errors (for example an AI request failing) are logged and the
// chain continues; an unmatched merchant is a normal outcome, never an error.
type Categorizer struct {
	strategies []Strategy
	logger     logging.Logger
}

// New creates a Categorizer over the given strategies, tried in order.
func New(logger logging.Logger, strategies ...Strategy) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Categorizer{
		strategies: strategies,
		logger:     logger,
	}
}

// Categorize returns the category for a merchant/body pair, or found=false
// when no strategy matched.
func (c *Categorizer) Categorize(ctx context.Context, merchant, body string) (string, bool) {
	for _, strategy := range c.strategies {
		category, found, err := strategy.Categorize(ctx, merchant, body)
		if err != nil {
			c.logger.WithError(err).WithField(logging.FieldStrategy, strategy.Name()).
				Warn("Categorization strategy failed, trying next")
			continue
		}
		if found {
			return category, true
		}
	}
	return "", false
}
