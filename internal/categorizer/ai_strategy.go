package categorizer

import (
	"context"

	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"
)

// AIStrategy implements categorization by delegating to an AI model when the
// local strategies found nothing. It only ever answers with a category name
// that exists in the configured table.
type AIStrategy struct {
	client     AIClient
	categories []string
	logger     logging.Logger
}

// NewAIStrategy creates an AIStrategy constrained to the names of the given
// category table.
func NewAIStrategy(client AIClient, categories []models.CategoryConfig, logger logging.Logger) *AIStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return &AIStrategy{
		client:     client,
		categories: names,
		logger:     logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Categorize asks the model for a category suggestion.
func (s *AIStrategy) Categorize(ctx context.Context, merchant, body string) (string, bool, error) {
	category, err := s.client.SuggestCategory(ctx, merchant, body, s.categories)
	if err != nil {
		return "", false, err
	}
	if category == "" {
		return "", false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Merchant categorized by AI fallback")
	return category, true, nil
}
