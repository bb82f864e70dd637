package categorizer

import (
	"context"
	"fmt"
	"strings"

	"jaehyun/sms-ledger/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed AI client. modelName selects the
// generative model, e.g. "gemini-1.5-flash".
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// SuggestCategory prompts the model to pick one category for the merchant.
func (c *GeminiClient) SuggestCategory(ctx context.Context, merchant, body string, categories []string) (string, error) {
	prompt := fmt.Sprintf(
		"You categorize Korean card payment notifications.\n"+
			"Merchant: %s\n"+
			"Message: %s\n"+
			"Answer with exactly one of the following category names and nothing else: %s",
		merchant, body, strings.Join(categories, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	answer := extractText(resp)
	answer = strings.TrimSpace(answer)
	for _, category := range categories {
		if strings.EqualFold(answer, category) {
			return category, nil
		}
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
		logging.Field{Key: "answer", Value: answer},
	).Debug("Gemini answer did not match any known category")
	return "", nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
