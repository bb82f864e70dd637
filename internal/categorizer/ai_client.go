package categorizer

import "context"

// AIClient abstracts the model backend used by the AI fallback strategy,
// keeping the strategy testable without network access.
type AIClient interface {
	// SuggestCategory asks the model to pick one category name from the
	// allowed list for the given merchant and message body. The returned
	// string must be one of categories or empty when the model declines.
	SuggestCategory(ctx context.Context, merchant, body string, categories []string) (string, error)
}
