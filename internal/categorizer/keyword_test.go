package categorizer

import (
	"context"
	"testing"

	"jaehyun/sms-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordStrategy_Name(t *testing.T) {
	strategy := &KeywordStrategy{}
	assert.Equal(t, "Keyword", strategy.Name())
}

func TestKeywordStrategy_Categorize(t *testing.T) {
	table := []models.CategoryConfig{
		{Name: "식비", Keywords: []string{"스타벅스", "커피", "치킨"}},
		{Name: "교통", Keywords: []string{"택시", "스타벅스"}}, // duplicate keyword, must lose to 식비
		{Name: "생활", Keywords: []string{"GS25", "편의점"}},
	}

	tests := []struct {
		name             string
		merchant         string
		body             string
		caseSensitive    bool
		expectedCategory string
		expectedFound    bool
	}{
		{
			name:             "keyword match in merchant",
			merchant:         "스타벅스 강남점",
			body:             "",
			caseSensitive:    true,
			expectedCategory: "식비",
			expectedFound:    true,
		},
		{
			name:             "keyword match in body only",
			merchant:         "모름",
			body:             "[신한카드] 치킨집 결제 18,000원",
			caseSensitive:    true,
			expectedCategory: "식비",
			expectedFound:    true,
		},
		{
			name:             "first category wins on shared keyword",
			merchant:         "스타벅스",
			body:             "택시 스타벅스",
			caseSensitive:    true,
			expectedCategory: "식비",
			expectedFound:    true,
		},
		{
			name:          "case sensitive misses lowercased latin merchant",
			merchant:      "gs25 역삼점",
			body:          "",
			caseSensitive: true,
			expectedFound: false,
		},
		{
			name:             "case insensitive matches lowercased latin merchant",
			merchant:         "gs25 역삼점",
			body:             "",
			caseSensitive:    false,
			expectedCategory: "생활",
			expectedFound:    true,
		},
		{
			name:          "no keyword matches",
			merchant:      "한강공원",
			body:          "한강공원 결제",
			caseSensitive: true,
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := NewKeywordStrategy(table, tt.caseSensitive, nil)
			category, found, err := strategy.Categorize(context.Background(), tt.merchant, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFound, found)
			if tt.expectedFound {
				assert.Equal(t, tt.expectedCategory, category)
			}
		})
	}
}
