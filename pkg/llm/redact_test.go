package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPANReplacesValidCardNumbers(t *testing.T) {
	in := "my card is 4242 4242 4242 4242 thanks"
	out := RedactPAN(in)
	assert.Equal(t, "my card is [REDACTED CARD NUMBER] thanks", out)
}

func TestRedactPANHandlesDashes(t *testing.T) {
	out := RedactPAN("4111-1111-1111-1111")
	assert.Equal(t, "[REDACTED CARD NUMBER]", out)
}

func TestRedactPANLeavesNonLuhnRunsAlone(t *testing.T) {
	in := "order number 1234 5678 9012 3456"
	assert.Equal(t, in, RedactPAN(in))
}

func TestRedactPANLeavesShortNumbersAlone(t *testing.T) {
	in := "call me at 555 0100"
	assert.Equal(t, in, RedactPAN(in))
}

func TestSanitizeMarkdownDropsBoilerplateLead(t *testing.T) {
	in := "Here are 3 bullets:\n- one\n- two"
	assert.Equal(t, "- one\n- two", sanitizeMarkdown(in))
}

func TestSanitizeMarkdownKeepsRealContent(t *testing.T) {
	in := "- one\n- two"
	assert.Equal(t, in, sanitizeMarkdown(in))
}

func TestFormatMixSortsByShare(t *testing.T) {
	out := formatMix(map[string]float64{"Groceries": 0.6, "Dining": 0.4})
	assert.Equal(t, "Groceries: 60%, Dining: 40%", out)
}
