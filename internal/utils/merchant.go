package utils

import (
	"regexp"
	"strings"
)

// normalizationRule rewrites a raw merchant string into its canonical form.
// Replacement supports capture-group references ($1).
type normalizationRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var normalizationRules = []normalizationRule{
	{regexp.MustCompile(`(?i)CHASE\s*#?\d+`), "CHASE"},
	{regexp.MustCompile(`(?i)AMZN\s*Mktp\s*.*`), "AMAZON"},
	{regexp.MustCompile(`(?i)UBER\s*\*EATS.*`), "UBER EATS"},
	{regexp.MustCompile(`(?i)SQ\s*\*.*`), "SQUARE"},
	{regexp.MustCompile(`(?i)WALMART\s*#?\d+`), "WALMART"},
	{regexp.MustCompile(`(?i)PAYPAL\s*\*(.+)`), "PAYPAL $1"},
	{regexp.MustCompile(`(?i)NETFLIX\.COM.*`), "NETFLIX"},
	{regexp.MustCompile(`(?i)ATT\s*\*BILL.*`), "AT&T"},
	{regexp.MustCompile(`(?i)SPOTIFY.*`), "SPOTIFY"},
}

var (
	nonWordChars = regexp.MustCompile(`[^\w\s]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// NormalizeMerchantName cleans a raw statement descriptor into a canonical
// merchant name. Known processor prefixes and store numbers are rewritten by
// rule; anything else is stripped of punctuation and uppercased.
func NormalizeMerchantName(raw string) string {
	if raw == "" {
		return "Unknown Merchant"
	}
	for _, rule := range normalizationRules {
		if rule.pattern.MatchString(raw) {
			return strings.TrimSpace(rule.pattern.ReplaceAllString(raw, rule.replacement))
		}
	}
	cleaned := nonWordChars.ReplaceAllString(raw, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return strings.ToUpper(strings.TrimSpace(cleaned))
}
