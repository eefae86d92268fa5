package llm

import (
	"regexp"
	"strings"
)

// panPattern matches digit runs that could be a card number, allowing the
// spaces and dashes people type between groups.
var panPattern = regexp.MustCompile(`(?:\d[ -]?){13,19}`)

var nonDigit = regexp.MustCompile(`\D`)

// luhnValid reports whether the digits in s form a valid card checksum.
func luhnValid(s string) bool {
	digits := nonDigit.ReplaceAllString(s, "")
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	total := 0
	parity := len(digits) % 2
	for i, c := range digits {
		d := int(c - '0')
		if i%2 == parity {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
	}
	return total%10 == 0
}

// RedactPAN replaces card numbers in free text with a placeholder. Digit runs
// that fail the Luhn check are left alone so order numbers and phone numbers
// survive.
func RedactPAN(text string) string {
	return panPattern.ReplaceAllStringFunc(text, func(match string) string {
		if luhnValid(match) {
			return "[REDACTED CARD NUMBER]"
		}
		return match
	})
}

// sanitizeMarkdown drops a leading boilerplate line like "Here are 3
// bullets..." that models tend to prepend.
func sanitizeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	first := strings.ToLower(strings.TrimSpace(lines[0]))
	if (strings.HasPrefix(first, "here") || strings.Contains(first, "bullet")) && len(first) < 120 {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
