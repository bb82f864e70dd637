package categorizer

import (
	"context"
	"strings"

	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"
)

// KeywordStrategy implements categorization by scanning an ordered table of
// (category, keyword list) entries. The first category whose keyword list
// matches the merchant string or the full message body wins, so the table
// order is part of the contract.
type KeywordStrategy struct {
	categories    []models.CategoryConfig
	caseSensitive bool
	logger        logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy over the given ordered table.
// With caseSensitive set, keywords match exactly as written; otherwise
// matching is case-insensitive (needed for Latin merchant names such as
// "GS25" appearing lowercased in message bodies).
func NewKeywordStrategy(categories []models.CategoryConfig, caseSensitive bool, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &KeywordStrategy{
		categories:    categories,
		caseSensitive: caseSensitive,
		logger:        logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize scans the category table in order and returns the first category
// with a keyword contained in the merchant string or the message body.
func (s *KeywordStrategy) Categorize(_ context.Context, merchant, body string) (string, bool, error) {
	haystackMerchant := merchant
	haystackBody := body
	if !s.caseSensitive {
		haystackMerchant = strings.ToLower(merchant)
		haystackBody = strings.ToLower(body)
	}

	for _, category := range s.categories {
		for _, keyword := range category.Keywords {
			needle := keyword
			if !s.caseSensitive {
				needle = strings.ToLower(keyword)
			}
			if strings.Contains(haystackMerchant, needle) || strings.Contains(haystackBody, needle) {
				s.logger.WithFields(
					logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
					logging.Field{Key: logging.FieldMerchant, Value: merchant},
					logging.Field{Key: "keyword", Value: keyword},
					logging.Field{Key: logging.FieldCategory, Value: category.Name},
				).Debug("Merchant categorized using keyword matching")
				return category.Name, true, nil
			}
		}
	}

	return "", false, nil
}
