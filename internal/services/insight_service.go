package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/rewards"
)

// periodsPerYear converts a detected cadence into yearly charge counts.
var periodsPerYear = map[string]float64{
	"yearly":    1,
	"quarterly": 4,
	"monthly":   12,
	"biweekly":  26,
	"weekly":    52,
}

// InsightService compares spend windows and surfaces what changed.
type InsightService struct {
	spend     *SpendService
	recurring *RecurringService
}

// NewInsightService creates a new InsightService
func NewInsightService(spend *SpendService, recurring *RecurringService) *InsightService {
	return &InsightService{spend: spend, recurring: recurring}
}

// resolveWindowDays interprets a window alias: "MTD" means days elapsed this
// calendar month, a number means that many days, anything else falls back.
func resolveWindowDays(window string, fallback int) int {
	trimmed := strings.TrimSpace(window)
	if strings.EqualFold(trimmed, "MTD") {
		return time.Now().UTC().Day()
	}
	trimmed = strings.TrimSuffix(trimmed, "d")
	if days, err := strconv.Atoi(trimmed); err == nil && days >= 1 {
		return days
	}
	return fallback
}

// WindowBreakdown is one side of a window comparison.
type WindowBreakdown struct {
	Total      float64               `json:"total"`
	Categories []rewards.CategoryRow `json:"categories"`
	Merchants  []rewards.MerchantRow `json:"merchants"`
}

// WindowComparison is the GET /insights/delta response.
type WindowComparison struct {
	WindowDays           int                        `json:"windowDays"`
	This                 WindowBreakdown            `json:"this"`
	Prior                WindowBreakdown            `json:"prior"`
	DeltaTotal           float64                    `json:"deltaTotal"`
	TopCategoryIncreases []rewards.CategoryIncrease `json:"topCategoryIncreases"`
	TopMerchantIncreases []rewards.MerchantIncrease `json:"topMerchantIncreases"`
}

// Compare splits roughly two windows of history at the cutoff and reports
// what rose between the prior window and this one.
func (s *InsightService) Compare(ctx context.Context, userID primitive.ObjectID, window string) (*WindowComparison, error) {
	days := resolveWindowDays(window, 30)

	// One load covers both windows, with a little cushion for boundary txns.
	txns, err := s.spend.LoadWindow(ctx, userID, days*2+2, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	curStart := now.AddDate(0, 0, -days)
	prevStart := curStart.AddDate(0, 0, -days)

	var current, prior []models.Transaction
	for _, txn := range txns {
		switch {
		case !txn.PostedAt.Before(curStart):
			current = append(current, txn)
		case !txn.PostedAt.Before(prevStart):
			prior = append(prior, txn)
		}
	}

	rules := s.spend.categoryRules(ctx)
	curSummary := rewards.Aggregate(current, rules)
	prevSummary := rewards.Aggregate(prior, rules)

	return &WindowComparison{
		WindowDays: days,
		This: WindowBreakdown{
			Total:      curSummary.Total,
			Categories: curSummary.Categories,
			Merchants:  curSummary.Merchants,
		},
		Prior: WindowBreakdown{
			Total:      prevSummary.Total,
			Categories: prevSummary.Categories,
			Merchants:  prevSummary.Merchants,
		},
		DeltaTotal:           round2(curSummary.Total - prevSummary.Total),
		TopCategoryIncreases: rewards.TopCategoryIncreases(curSummary.Categories, prevSummary.Categories),
		TopMerchantIncreases: rewards.TopMerchantIncreases(curSummary.Merchants, prevSummary.Merchants),
	}, nil
}

// OverspendSummary is the GET /insights/overspend response, a compact view of
// a window comparison suitable for chat replies.
type OverspendSummary struct {
	WindowDays int                        `json:"windowDays"`
	Delta      float64                    `json:"delta"`
	Categories []rewards.CategoryIncrease `json:"categories"`
	Merchants  []rewards.MerchantIncrease `json:"merchants"`
}

// Overspend reports where spending rose versus the prior window
func (s *InsightService) Overspend(ctx context.Context, userID primitive.ObjectID, window string) (*OverspendSummary, error) {
	cmp, err := s.Compare(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	return &OverspendSummary{
		WindowDays: cmp.WindowDays,
		Delta:      cmp.DeltaTotal,
		Categories: cmp.TopCategoryIncreases,
		Merchants:  cmp.TopMerchantIncreases,
	}, nil
}

// Subscription is one recurring bill priced at its yearly cost.
type Subscription struct {
	Merchant   string  `json:"merchant"`
	Period     string  `json:"period"`
	Typical    float64 `json:"typical"`
	AnnualBurn float64 `json:"annualBurn"`
}

// SubscriptionReport is the GET /insights/subscriptions response.
type SubscriptionReport struct {
	Subscriptions []Subscription `json:"subscriptions"`
	AnnualTotal   float64        `json:"annualTotal"`
}

// Subscriptions prices the user's recurring bills by annual burn, largest
// first.
func (s *InsightService) Subscriptions(ctx context.Context, userID primitive.ObjectID) (*SubscriptionReport, error) {
	groups, err := s.recurring.Groups(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs := make([]Subscription, 0, len(groups))
	total := 0.0
	for _, group := range groups {
		perYear, ok := periodsPerYear[group.Period]
		if !ok {
			continue
		}
		burn := round2(group.TypicalAmount * perYear)
		total += burn
		subs = append(subs, Subscription{
			Merchant:   group.MerchantName,
			Period:     group.Period,
			Typical:    group.TypicalAmount,
			AnnualBurn: burn,
		})
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].AnnualBurn > subs[j].AnnualBurn })
	return &SubscriptionReport{Subscriptions: subs, AnnualTotal: round2(total)}, nil
}

// CategoryDeepDive is the GET /insights/category response.
type CategoryDeepDive struct {
	Category     string                `json:"category"`
	WindowDays   int                   `json:"windowDays"`
	ThisTotal    float64               `json:"thisTotal"`
	PriorTotal   float64               `json:"priorTotal"`
	Delta        float64               `json:"delta"`
	TopMerchants []rewards.MerchantRow `json:"topMerchants"`
}

const deepDiveMerchantLimit = 5

// DeepDive compares one category across the current and prior windows. The
// category name is canonicalized, so "dining" and "Food and Drink" land in
// the same bucket.
func (s *InsightService) DeepDive(ctx context.Context, userID primitive.ObjectID, category, window string) (*CategoryDeepDive, error) {
	days := resolveWindowDays(window, 30)
	canonical := rewards.CanonicalCategory(category)

	txns, err := s.spend.LoadWindow(ctx, userID, days*2, nil)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	var current, prior []models.Transaction
	for _, txn := range txns {
		if !txn.PostedAt.Before(cutoff) {
			current = append(current, txn)
		} else {
			prior = append(prior, txn)
		}
	}

	rules := s.spend.categoryRules(ctx)
	curSummary := rewards.Aggregate(current, rules)
	prevSummary := rewards.Aggregate(prior, rules)

	curTotal := rewards.CategoryTotal(curSummary, canonical)
	prevTotal := rewards.CategoryTotal(prevSummary, canonical)

	return &CategoryDeepDive{
		Category:     canonical,
		WindowDays:   days,
		ThisTotal:    curTotal,
		PriorTotal:   prevTotal,
		Delta:        round2(curTotal - prevTotal),
		TopMerchants: rewards.CategoryMerchants(curSummary, canonical, deepDiveMerchantLimit),
	}, nil
}
