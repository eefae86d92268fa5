// Package llm wraps the Gemini API for the two places the backend talks to a
// model: explaining card recommendations and answering free-form chat. A mock
// mode returns canned text so the rest of the app works without an API key.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

const (
	maxHistoryTurns  = 20
	maxMessageRunes  = 2000
	unavailableReply = "Swipe Coach chat is currently unavailable."
	offlineReply     = "Swipe Coach is momentarily offline. Please try again in a bit."
)

// Config carries the Gemini settings the client needs.
type Config struct {
	APIKey string
	Model  string
	Mock   bool
}

// ChatMessage is one prior turn of the conversation.
type ChatMessage struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// RecommendationSummary is the slim view of a scored card fed into prompts.
type RecommendationSummary struct {
	Name   string
	Issuer string
	Net    float64
}

// Client talks to Gemini. Use NewClient to construct one.
type Client struct {
	cfg    Config
	client *genai.Client
}

// NewClient creates a Gemini client. When cfg.Mock is set or no API key is
// configured, the returned client answers with canned text and never dials out.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Mock || cfg.APIKey == "" {
		return &Client{cfg: Config{Model: cfg.Model, Mock: true}}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{cfg: cfg, client: client}, nil
}

// Mock reports whether the client is running without a real API connection
func (c *Client) Mock() bool {
	return c.cfg.Mock
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// ExplainRecommendations asks the model for a few short bullets on why the
// named cards fit the user's category mix. Failures degrade to an empty string
// so recommendation responses never block on the model.
func (c *Client) ExplainRecommendations(ctx context.Context, mix map[string]float64, cardNames []string) string {
	if len(cardNames) == 0 {
		return ""
	}
	if c.cfg.Mock {
		return fmt.Sprintf("These cards line up with where your money already goes, led by %s.", cardNames[0])
	}
	prompt := fmt.Sprintf(
		"User category mix (percent of monthly spend): %s. "+
			"Give 3 short bullets explaining why these cards fit: %s. "+
			"Avoid exact APRs/terms; keep generic.",
		formatMix(mix), strings.Join(cardNames, ", "),
	)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return sanitizeMarkdown(text)
}

// ChatReply answers a free-form user message, grounded by the spend mix and
// current recommendations. History and the new message are redacted before
// they reach the model.
func (c *Client) ChatReply(ctx context.Context, mix map[string]float64, recs []RecommendationSummary, history []ChatMessage, newMessage string) string {
	if c.cfg.Mock {
		return unavailableReply
	}

	var b strings.Builder
	b.WriteString("You are FinBot, a friendly assistant for the Swipe Coach app. ")
	b.WriteString("Your goal is to help users understand their spending and card recommendations. ")
	b.WriteString("Do not provide financial advice. Keep responses concise and helpful.\n\n")
	b.WriteString("User financial context (high level):\n")
	b.WriteString("- Spending mix (last 90 days): " + formatMix(mix) + "\n")
	b.WriteString("- Top card recommendations:\n" + formatRecommendations(recs) + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Never echo or store full card numbers. If the user provides one, acknowledge and discard it.\n\n")

	turns := history
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	if len(turns) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, msg := range turns {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				continue
			}
			speaker := "FinBot"
			if msg.Author == "user" {
				speaker = "User"
			}
			b.WriteString(speaker + ": " + truncate(RedactPAN(content), maxMessageRunes) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("User: " + truncate(RedactPAN(strings.TrimSpace(newMessage)), maxMessageRunes) + "\nFinBot:")

	text, err := c.generate(ctx, b.String())
	if err != nil {
		return offlineReply
	}
	return sanitizeMarkdown(text)
}

func formatMix(mix map[string]float64) string {
	if len(mix) == 0 {
		return "No recent spending information."
	}
	type entry struct {
		name  string
		share float64
	}
	entries := make([]entry, 0, len(mix))
	for name, share := range mix {
		entries = append(entries, entry{name, share})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].share > entries[j].share })
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s: %.0f%%", e.name, e.share*100))
	}
	return strings.Join(parts, ", ")
}

func formatRecommendations(recs []RecommendationSummary) string {
	if len(recs) == 0 {
		return "No card recommendations available yet."
	}
	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		line := "- " + rec.Name
		if rec.Issuer != "" {
			line += " (" + rec.Issuer + ")"
		}
		if rec.Net != 0 {
			line += fmt.Sprintf(" / est. annual net $%.0f", rec.Net)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
