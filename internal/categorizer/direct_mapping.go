package categorizer

import (
	"context"
	"strings"
	"sync"

	"jaehyun/sms-ledger/internal/logging"
)

// DirectMappingStrategy implements categorization using exact merchant name
// matches learned from previous imports. Lookups are case-insensitive; keys
// are normalized to lowercase on the way in.
type DirectMappingStrategy struct {
	mappings map[string]string
	logger   logging.Logger
	dirty    bool
	mu       sync.RWMutex
}

// NewDirectMappingStrategy creates a DirectMappingStrategy seeded with the
// given merchant-to-category mappings (typically loaded from the store).
func NewDirectMappingStrategy(mappings map[string]string, logger logging.Logger) *DirectMappingStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	normalized := make(map[string]string, len(mappings))
	for merchant, category := range mappings {
		normalized[strings.ToLower(merchant)] = category
	}
	return &DirectMappingStrategy{
		mappings: normalized,
		logger:   logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return "DirectMapping"
}

// Categorize looks the merchant up in the learned mapping table.
func (s *DirectMappingStrategy) Categorize(_ context.Context, merchant, _ string) (string, bool, error) {
	if strings.TrimSpace(merchant) == "" {
		return "", false, nil
	}

	s.mu.RLock()
	category, found := s.mappings[strings.ToLower(merchant)]
	s.mu.RUnlock()

	if !found {
		return "", false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Merchant categorized using direct mapping")
	return category, true, nil
}

// Update adds or replaces the mapping for one merchant.
func (s *DirectMappingStrategy) Update(merchant, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[strings.ToLower(merchant)] = category
	s.dirty = true
}

// Dirty reports whether mappings changed since the strategy was created.
func (s *DirectMappingStrategy) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Snapshot returns a copy of the current mappings for persistence.
func (s *DirectMappingStrategy) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.mappings))
	for merchant, category := range s.mappings {
		out[merchant] = category
	}
	return out
}
