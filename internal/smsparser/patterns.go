package smsparser

import (
	"fmt"
	"regexp"

	"jaehyun/sms-ledger/internal/models"
)

// IssuerPattern is one issuer-specific amount pattern. The regular expression
// is anchored to the issuer tag and the payment marker; its first non-empty
// capture group is the amount text. Lower priority means a more trusted
// issuer and a larger confidence bonus.
type IssuerPattern struct {
	Name     string
	Priority int
	re       *regexp.Regexp
}

// PatternSet bundles the ordered issuer and merchant patterns one parser
// variant works with. Patterns are tried in slice order; first match wins.
type PatternSet struct {
	Name      string
	Issuers   []IssuerPattern
	Merchants []*regexp.Regexp
	// CaseSensitive is the keyword-matching mode that goes with this set.
	// The basic set matches keywords exactly; the advanced set folds case so
	// Latin merchant names match regardless of how the message spells them.
	CaseSensitive bool
}

// genericAmount is the fallback when no issuer-specific pattern matches:
// any currency-formatted number.
var genericAmount = regexp.MustCompile(`([0-9][0-9,]*)\s*원`)

// merchantPatterns are the contextual merchant extraction patterns, in
// priority order: text between a timestamp and the payment marker, then text
// between the payment marker and the amount.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}\s+\d{1,2}:\d{2}\s+(.+?)\s*결제`),
	regexp.MustCompile(`결제\s+(.+?)\s+[0-9][0-9,]*\s*원`),
}

// issuerPattern builds the amount pattern for one issuer tag: the tag,
// anything, then either "결제 <amount>원" or "<amount>원 결제".
func issuerPattern(name string, priority int) IssuerPattern {
	tag := regexp.QuoteMeta(name)
	re := regexp.MustCompile(tag + `.*?(?:결제\D*?([0-9][0-9,]*)\s*원|([0-9][0-9,]*)\s*원\s*결제)`)
	return IssuerPattern{Name: name, Priority: priority, re: re}
}

// BasicPatterns returns the basic pattern set: the major card issuers, all
// at priority 1 so the issuer confidence bonus stays the flat +0.2.
func BasicPatterns() PatternSet {
	return PatternSet{
		Name: "basic",
		Issuers: []IssuerPattern{
			issuerPattern("신한카드", 1),
			issuerPattern("KB국민카드", 1),
			issuerPattern("삼성카드", 1),
			issuerPattern("현대카드", 1),
			issuerPattern("우리카드", 1),
		},
		Merchants:     merchantPatterns,
		CaseSensitive: true,
	}
}

// AdvancedPatterns returns the advanced pattern set: the basic issuers plus
// bank cards and fintech senders, with priorities weighting the confidence
// bonus (priority 1 card issuers are trusted more than priority 3 fintech
// notifications, which often relay rather than originate payments).
func AdvancedPatterns() PatternSet {
	return PatternSet{
		Name: "advanced",
		Issuers: []IssuerPattern{
			issuerPattern("신한카드", 1),
			issuerPattern("KB국민카드", 1),
			issuerPattern("삼성카드", 1),
			issuerPattern("현대카드", 1),
			issuerPattern("우리카드", 1),
			issuerPattern("롯데카드", 1),
			issuerPattern("하나카드", 1),
			issuerPattern("NH농협카드", 2),
			issuerPattern("IBK기업은행", 2),
			issuerPattern("카카오뱅크", 2),
			issuerPattern("카카오페이", 3),
			issuerPattern("네이버페이", 3),
			issuerPattern("토스", 3),
		},
		Merchants:     merchantPatterns,
		CaseSensitive: false,
	}
}

// PatternSetFor returns the named built-in pattern set.
func PatternSetFor(name string) (PatternSet, error) {
	switch name {
	case "basic":
		return BasicPatterns(), nil
	case "advanced":
		return AdvancedPatterns(), nil
	default:
		return PatternSet{}, fmt.Errorf("unknown pattern set %q", name)
	}
}

// PatternSetFromIssuers builds a pattern set from issuer configurations
// loaded from the YAML store, keeping the built-in merchant patterns.
func PatternSetFromIssuers(name string, issuers []models.IssuerConfig, caseSensitive bool) (PatternSet, error) {
	set := PatternSet{
		Name:          name,
		Merchants:     merchantPatterns,
		CaseSensitive: caseSensitive,
	}
	for _, issuer := range issuers {
		priority := issuer.Priority
		if priority < 1 {
			priority = 1
		}
		if issuer.Pattern == "" {
			// No explicit pattern: derive the standard one from the tag.
			set.Issuers = append(set.Issuers, issuerPattern(issuer.Name, priority))
			continue
		}
		re, err := regexp.Compile(issuer.Pattern)
		if err != nil {
			return PatternSet{}, fmt.Errorf("invalid pattern for issuer %q: %w", issuer.Name, err)
		}
		set.Issuers = append(set.Issuers, IssuerPattern{
			Name:     issuer.Name,
			Priority: priority,
			re:       re,
		})
	}
	return set, nil
}

// BasicCategories returns the basic ordered category keyword table.
func BasicCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{Name: "식비", Keywords: []string{
			"스타벅스", "커피", "카페", "식당", "치킨", "피자",
			"맥도날드", "버거킹", "배달의민족", "요기요",
		}},
		{Name: "교통", Keywords: []string{
			"택시", "버스", "지하철", "주유소", "주유", "충전",
		}},
		{Name: "쇼핑", Keywords: []string{
			"쿠팡", "마트", "백화점", "올리브영", "다이소",
		}},
		{Name: "생활", Keywords: []string{
			"편의점", "약국", "세탁", "병원",
		}},
	}
}

// AdvancedCategories returns the expanded ordered category keyword table,
// meant to be matched case-insensitively.
func AdvancedCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{Name: "식비", Keywords: []string{
			"스타벅스", "커피", "카페", "식당", "치킨", "피자",
			"맥도날드", "버거킹", "배달의민족", "요기요",
			"이디야", "투썸플레이스", "김밥", "서브웨이", "BBQ", "BHC",
		}},
		{Name: "교통", Keywords: []string{
			"택시", "버스", "지하철", "주유소", "주유", "충전",
			"코레일", "SRT", "카카오T", "하이패스",
		}},
		{Name: "쇼핑", Keywords: []string{
			"쿠팡", "마트", "백화점", "다이소",
			"무신사", "지마켓", "11번가", "네이버쇼핑", "AMAZON",
		}},
		{Name: "생활", Keywords: []string{
			"편의점", "약국", "세탁", "병원",
			"GS25", "CU", "세븐일레븐", "이마트24", "올리브영",
		}},
		{Name: "구독", Keywords: []string{
			"넷플릭스", "NETFLIX", "유튜브", "YOUTUBE", "멜론", "스포티파이",
		}},
	}
}

// CategoriesFor returns the built-in category table matching a pattern set.
func CategoriesFor(name string) ([]models.CategoryConfig, error) {
	switch name {
	case "basic":
		return BasicCategories(), nil
	case "advanced":
		return AdvancedCategories(), nil
	default:
		return nil, fmt.Errorf("unknown pattern set %q", name)
	}
}
