package smsparser

import (
	"context"
	"testing"
	"time"

	"jaehyun/sms-ledger/internal/categorizer"
	"jaehyun/sms-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advancedParser(t *testing.T) *Parser {
	t.Helper()
	keyword := categorizer.NewKeywordStrategy(AdvancedCategories(), false, nil)
	return New(AdvancedPatterns(), categorizer.New(nil, keyword), nil)
}

func msg(body string) models.Message {
	return models.Message{
		ID:         "m-1",
		Address:    "15881234",
		Body:       body,
		ReceivedAt: time.Date(2024, 12, 25, 15, 31, 0, 0, time.UTC),
		Direction:  models.DirectionIncoming,
	}
}

func TestParser_Parse_IssuerNotification(t *testing.T) {
	p := advancedParser(t)

	cand := p.Parse(context.Background(), msg("[신한카드] 12/25 15:30 스타벅스 결제 6,500원 승인"))
	require.NotNil(t, cand)

	assert.Equal(t, int64(6500), cand.Amount)
	assert.Equal(t, "신한카드", cand.Issuer)
	assert.Equal(t, "스타벅스", cand.Merchant)
	assert.Contains(t, cand.Description, "신한카드")
	assert.Contains(t, cand.Description, "스타벅스")
	assert.Equal(t, "식비", cand.Category)
	assert.GreaterOrEqual(t, cand.Confidence, 0.7)
	assert.LessOrEqual(t, cand.Confidence, 1.0)
	assert.Equal(t, time.Date(2024, 12, 25, 15, 31, 0, 0, time.UTC), cand.Date,
		"candidate date is the message receipt time, not the embedded 12/25 15:30 text")
}

func TestParser_Parse_NoMatch(t *testing.T) {
	p := advancedParser(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "no amount at all", body: "안녕하세요 회원님"},
		{name: "empty body", body: ""},
		{name: "whitespace only", body: "   \n\t "},
		{name: "zero amount", body: "신한카드 결제 0원"},
		{name: "number without currency marker", body: "인증번호 123456 입니다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, p.Parse(context.Background(), msg(tt.body)))
		})
	}
}

func TestParser_Parse_GenericFallback(t *testing.T) {
	p := advancedParser(t)

	cand := p.Parse(context.Background(), msg("어제 총 3,000원 사용하셨습니다"))
	require.NotNil(t, cand)

	assert.Equal(t, int64(3000), cand.Amount)
	assert.Empty(t, cand.Issuer)
	assert.Equal(t, models.MerchantUnknown, cand.Merchant)
	assert.Equal(t, models.CategoryUncategorized, cand.Category)
	assert.InDelta(t, 0.5, cand.Confidence, 1e-9)
}

func TestParser_Parse_AmountDigitStripping(t *testing.T) {
	p := advancedParser(t)

	cand := p.Parse(context.Background(), msg("KB국민카드 결제 1,234,567원 승인"))
	require.NotNil(t, cand)
	assert.Equal(t, int64(1234567), cand.Amount)
}

func TestParser_Parse_WhitespaceNormalization(t *testing.T) {
	p := advancedParser(t)

	cand := p.Parse(context.Background(), msg("신한카드\n12/25   15:30\t스타벅스  결제\n6,500원"))
	require.NotNil(t, cand)
	assert.Equal(t, int64(6500), cand.Amount)
	assert.Equal(t, "스타벅스", cand.Merchant)
}

func TestParser_Parse_IssuerOrderFirstMatchWins(t *testing.T) {
	p := advancedParser(t)

	cand := p.Parse(context.Background(), msg("신한카드 안내: KB국민카드 결제 9,000원"))
	require.NotNil(t, cand)
	assert.Equal(t, "신한카드", cand.Issuer)
}

func TestParser_Parse_ConfidenceMonotonic(t *testing.T) {
	p := advancedParser(t)
	ctx := context.Background()

	amountOnly := p.Parse(ctx, msg("총 5,000원"))
	withIssuer := p.Parse(ctx, msg("신한카드 결제 5,000원"))
	withMerchant := p.Parse(ctx, msg("신한카드 12/25 15:30 한강공원 결제 5,000원"))
	withCategory := p.Parse(ctx, msg("신한카드 12/25 15:30 스타벅스 결제 5,000원"))

	require.NotNil(t, amountOnly)
	require.NotNil(t, withIssuer)
	require.NotNil(t, withMerchant)
	require.NotNil(t, withCategory)

	assert.InDelta(t, 0.5, amountOnly.Confidence, 1e-9)
	assert.Greater(t, withIssuer.Confidence, amountOnly.Confidence)
	assert.Greater(t, withMerchant.Confidence, withIssuer.Confidence)
	assert.Greater(t, withCategory.Confidence, withMerchant.Confidence)
	assert.LessOrEqual(t, withCategory.Confidence, 1.0)
}

func TestParser_Parse_PriorityWeightedIssuerBonus(t *testing.T) {
	p := advancedParser(t)
	ctx := context.Background()

	card := p.Parse(ctx, msg("신한카드 결제 5,000원"))     // priority 1: +0.2
	bank := p.Parse(ctx, msg("카카오뱅크 결제 5,000원"))    // priority 2: +0.1
	fintech := p.Parse(ctx, msg("카카오페이 결제 5,000원")) // priority 3: +0.0

	require.NotNil(t, card)
	require.NotNil(t, bank)
	require.NotNil(t, fintech)

	assert.InDelta(t, 0.7, card.Confidence, 1e-9)
	assert.InDelta(t, 0.6, bank.Confidence, 1e-9)
	assert.InDelta(t, 0.5, fintech.Confidence, 1e-9)
	assert.Equal(t, "카카오페이", fintech.Issuer, "issuer is still recorded even when the bonus is zero")
}

func TestParser_Parse_BasicSetIsFlatBonus(t *testing.T) {
	keyword := categorizer.NewKeywordStrategy(BasicCategories(), true, nil)
	p := New(BasicPatterns(), categorizer.New(nil, keyword), nil)

	cand := p.Parse(context.Background(), msg("삼성카드 결제 8,000원"))
	require.NotNil(t, cand)
	assert.InDelta(t, 0.7, cand.Confidence, 1e-9)
}

func TestParser_Parse_MerchantBetweenMarkerAndAmount(t *testing.T) {
	p := advancedParser(t)

	cand := p.Parse(context.Background(), msg("현대카드 결제 교촌치킨 18,000원 승인"))
	require.NotNil(t, cand)
	assert.Equal(t, "교촌치킨", cand.Merchant)
	assert.Equal(t, "식비", cand.Category)
}

func TestParser_Parse_NilCategorizerDefaultsToUncategorized(t *testing.T) {
	p := New(AdvancedPatterns(), nil, nil)

	cand := p.Parse(context.Background(), msg("신한카드 12/25 15:30 스타벅스 결제 6,500원"))
	require.NotNil(t, cand)
	assert.Equal(t, models.CategoryUncategorized, cand.Category)
	assert.InDelta(t, 0.9, cand.Confidence, 1e-9)
}

func TestParser_Parse_UsesNowWhenMessageHasNoTimestamp(t *testing.T) {
	p := advancedParser(t)
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	m := msg("신한카드 결제 5,000원")
	m.ReceivedAt = time.Time{}

	cand := p.Parse(context.Background(), m)
	require.NotNil(t, cand)
	assert.Equal(t, fixed, cand.Date)
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a\t\tb \n c "))
	assert.Equal(t, "", NormalizeWhitespace(" \n\t"))
}

func TestPatternSetFromIssuers(t *testing.T) {
	issuers := []models.IssuerConfig{
		{Name: "테스트카드", Pattern: `테스트카드.*?([0-9][0-9,]*)\s*원`, Priority: 1},
	}

	set, err := PatternSetFromIssuers("custom", issuers, true)
	require.NoError(t, err)

	p := New(set, nil, nil)
	cand := p.Parse(context.Background(), msg("테스트카드 승인 4,500원"))
	require.NotNil(t, cand)
	assert.Equal(t, "테스트카드", cand.Issuer)
	assert.Equal(t, int64(4500), cand.Amount)

	_, err = PatternSetFromIssuers("bad", []models.IssuerConfig{{Name: "x", Pattern: "("}}, true)
	assert.Error(t, err)
}
