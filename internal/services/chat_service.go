package services

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/pkg/llm"
)

// Intent patterns routed to tools instead of the model.
var (
	bestCardPattern = regexp.MustCompile(`(?i)(best card|what card|where should i put)`)
	amountPattern   = regexp.MustCompile(`\$?\s*(\d+(?:\.\d{1,2})?)`)
	grocerPattern   = regexp.MustCompile(`(?i)\b(H-?E-?B|HEB)\b`)
	overspendRe     = regexp.MustCompile(`(?i)\boverspend`)
	deltaPattern    = regexp.MustCompile(`(?i)(changed.*last\s*30|last\s*30\s*days)`)
	subsPattern     = regexp.MustCompile(`(?i)(subscriptions|annual burn)`)
)

const chatWindowDays = 90

// ChatService answers user chat turns. Known intents route to the best-card
// and insight tools and return structured payloads the client renders as rich
// cards; everything else goes to the model with spend context attached.
type ChatService struct {
	spend           *SpendService
	recommendations *RecommendationService
	bestCard        *BestCardService
	insights        *InsightService
	llm             *llm.Client
	logger          *slog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	spend *SpendService,
	recommendations *RecommendationService,
	bestCard *BestCardService,
	insights *InsightService,
	llmClient *llm.Client,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		spend:           spend,
		recommendations: recommendations,
		bestCard:        bestCard,
		insights:        insights,
		llm:             llmClient,
		logger:          logger,
	}
}

// ChatMessage is the assistant's reply envelope.
type ChatMessage struct {
	ID        string      `json:"id"`
	Author    string      `json:"author"`
	Content   string      `json:"content,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Respond handles one chat turn. Card numbers are redacted before the text is
// inspected or forwarded anywhere.
func (s *ChatService) Respond(ctx context.Context, userID primitive.ObjectID, history []llm.ChatMessage, newMessage string) (*ChatMessage, error) {
	text := llm.RedactPAN(strings.TrimSpace(newMessage))

	if payload, handled, err := s.routeIntent(ctx, userID, text); handled {
		if err != nil {
			return nil, err
		}
		return s.envelope("", payload), nil
	}

	mix, windowTotal, _, err := s.spend.Mix(ctx, userID, chatWindowDays, nil)
	if err != nil {
		return nil, err
	}

	recs := []llm.RecommendationSummary{}
	if len(mix) > 0 && windowTotal > 0 {
		result, err := s.recommendations.Recommend(ctx, userID, RecommendationRequest{
			WindowDays: chatWindowDays,
			Limit:      3,
		})
		if err != nil {
			s.logger.Warn("chat recommendation context failed", "error", err)
		} else {
			for _, card := range result.Cards {
				recs = append(recs, llm.RecommendationSummary{
					Name:   card.ProductName,
					Issuer: card.Issuer,
					Net:    card.Net,
				})
			}
		}
	}

	reply := s.llm.ChatReply(ctx, mix, recs, history, text)
	return s.envelope(reply, nil), nil
}

// routeIntent checks the message against the tool patterns. The second return
// is false when no intent matched and the model should answer instead.
func (s *ChatService) routeIntent(ctx context.Context, userID primitive.ObjectID, text string) (interface{}, bool, error) {
	switch {
	case bestCardPattern.MatchString(text):
		amount := extractAmount(text)
		merchant, category := inferMerchantCategory(text)
		result, err := s.bestCard.Best(ctx, userID, merchant, category, amount)
		return result, true, err

	case overspendRe.MatchString(text):
		result, err := s.insights.Overspend(ctx, userID, "MTD")
		if err != nil {
			return nil, true, err
		}
		return map[string]interface{}{"type": "insight.overspend", "insight": result}, true, nil

	case deltaPattern.MatchString(text):
		result, err := s.insights.Compare(ctx, userID, "30")
		if err != nil {
			return nil, true, err
		}
		return map[string]interface{}{"type": "insight.delta", "insight": result}, true, nil

	case subsPattern.MatchString(text):
		result, err := s.insights.Subscriptions(ctx, userID)
		if err != nil {
			return nil, true, err
		}
		return map[string]interface{}{"type": "insight.subscriptions", "insight": result}, true, nil
	}
	return nil, false, nil
}

func (s *ChatService) envelope(content string, payload interface{}) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.NewString(),
		Author:    "assistant",
		Content:   content,
		Payload:   payload,
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
	}
}

func extractAmount(text string) float64 {
	match := amountPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return amount
}

// inferMerchantCategory applies minimal merchant heuristics to a message
func inferMerchantCategory(text string) (merchant, category string) {
	if grocerPattern.MatchString(text) {
		return "H-E-B", "Groceries"
	}
	return "", ""
}
