// Package smsparser turns free-text bank and card payment notifications into
// structured expense candidates. Parsing is pure pattern matching: an ordered
// list of issuer-anchored amount patterns with a generic fallback, contextual
// merchant extraction, keyword categorization, and an additive confidence
// score. A message that matches no amount pattern yields no candidate at all;
// that is a normal outcome, not an error.
//
// The candidate date is the receipt time of the source message. The embedded
// "12/25 15:30" text serves only as a merchant-extraction anchor and is never
// parsed into the date.
package smsparser

import (
	"context"
	"strconv"
	"strings"
	"time"

	"jaehyun/sms-ledger/internal/logging"
	"jaehyun/sms-ledger/internal/models"
)

// confidence scoring: a base for any extracted amount, bonuses for each
// recognized sub-pattern, clamped to 1.0.
const (
	confidenceBase     = 0.5
	confidenceMerchant = 0.2
	confidenceCategory = 0.1
	// issuer bonus is priority-weighted: 0.1 * (3 - priority), so priority 1
	// issuers add the full 0.2 and priority 3 issuers add nothing.
	issuerBonusStep = 0.1
	issuerBonusCap  = 3
)

// Categorizer is the category lookup the parser delegates to. A no-match
// answer leaves the candidate on the uncategorized default.
type Categorizer interface {
	Categorize(ctx context.Context, merchant, body string) (string, bool)
}

// Parser extracts expense candidates from notification messages using one
// pattern set. Safe for concurrent use.
type Parser struct {
	set         PatternSet
	categorizer Categorizer
	logger      logging.Logger
	now         func() time.Time
}

// New creates a Parser over the given pattern set. categorizer may be nil,
// leaving every candidate on the uncategorized default.
func New(set PatternSet, categorizer Categorizer, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{
		set:         set,
		categorizer: categorizer,
		logger:      logger,
		now:         time.Now,
	}
}

// Parse matches one message against the pattern set. Returns nil when the
// message is not a recognizable payment notification; malformed input simply
// fails to match.
func (p *Parser) Parse(ctx context.Context, msg models.Message) *models.ExpenseCandidate {
	body := NormalizeWhitespace(msg.Body)
	if body == "" {
		return nil
	}

	issuer, amountText, priority := p.matchAmount(body)
	if amountText == "" {
		return nil
	}

	amount := parseAmount(amountText)
	if amount <= 0 {
		// Zero-amount candidates are never produced.
		return nil
	}

	merchant, merchantFound := p.matchMerchant(body)
	if !merchantFound {
		merchant = models.MerchantUnknown
	}

	category := models.CategoryUncategorized
	categoryFound := false
	if p.categorizer != nil {
		if name, ok := p.categorizer.Categorize(ctx, merchant, body); ok {
			category = name
			categoryFound = true
		}
	}

	confidence := confidenceBase
	if issuer != "" {
		bonus := issuerBonusStep * float64(issuerBonusCap-priority)
		if bonus > 0 {
			confidence += bonus
		}
	}
	if merchantFound {
		confidence += confidenceMerchant
	}
	if categoryFound {
		confidence += confidenceCategory
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	description := merchant
	if issuer != "" {
		description = issuer + " " + merchant
	}

	date := msg.ReceivedAt
	if date.IsZero() {
		date = p.now()
	}

	candidate := &models.ExpenseCandidate{
		Amount:      amount,
		Description: description,
		Merchant:    merchant,
		Issuer:      issuer,
		Category:    category,
		Date:        date,
		Confidence:  confidence,
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldMessageID, Value: msg.ID},
		logging.Field{Key: logging.FieldIssuer, Value: issuer},
		logging.Field{Key: logging.FieldAmount, Value: amount},
		logging.Field{Key: logging.FieldMerchant, Value: merchant},
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldConfidence, Value: confidence},
	).Debug("Parsed payment notification")

	return candidate
}

// matchAmount tries the issuer-specific patterns in order, then the generic
// currency-number fallback. Returns the issuer name (empty for the generic
// fallback), the matched amount text, and the issuer priority.
func (p *Parser) matchAmount(body string) (issuer, amountText string, priority int) {
	for _, pattern := range p.set.Issuers {
		groups := pattern.re.FindStringSubmatch(body)
		if groups == nil {
			continue
		}
		for _, group := range groups[1:] {
			if group != "" {
				return pattern.Name, group, pattern.Priority
			}
		}
	}

	if groups := genericAmount.FindStringSubmatch(body); groups != nil {
		return "", groups[1], 0
	}
	return "", "", 0
}

// matchMerchant tries the contextual merchant patterns in order.
func (p *Parser) matchMerchant(body string) (string, bool) {
	for _, pattern := range p.set.Merchants {
		groups := pattern.FindStringSubmatch(body)
		if groups == nil {
			continue
		}
		merchant := strings.TrimSpace(groups[1])
		if merchant != "" {
			return merchant, true
		}
	}
	return "", false
}

// NormalizeWhitespace collapses runs of whitespace (including newlines) to
// single spaces and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseAmount strips every non-digit character from the matched amount text
// and parses the remainder. Returns 0 when nothing parseable remains.
func parseAmount(text string) int64 {
	var sb strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return 0
	}
	amount, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return 0
	}
	return amount
}
