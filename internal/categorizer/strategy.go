// Package categorizer assigns expense categories to parsed merchants using
// multiple methods, tried in order:
// 1. Direct merchant-to-category mapping learned from previous imports
// 2. Ordered keyword tables matched against the merchant and the message body
// 3. AI-based categorization using a Gemini model as an optional fallback
package categorizer

import "context"

// Strategy defines one method for categorizing a parsed merchant.
type Strategy interface {
	// Categorize attempts to find a category for the given merchant string.
	// body is the full normalized message text, available for keyword
	// matching beyond the merchant itself. Returns the category name, a
	// boolean indicating whether this strategy produced a match, and any
	// error encountered. Not matching is a normal outcome, not an error.
	Categorize(ctx context.Context, merchant, body string) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging.
	Name() string
}
