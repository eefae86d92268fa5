package rewards

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/swipecoach/backend/internal/models"
)

// highlightPrinter renders whole-dollar figures with thousands separators
// for welcome offers and monthly totals.
var highlightPrinter = message.NewPrinter(language.AmericanEnglish)

func dollars(v float64) string {
	return highlightPrinter.Sprintf("%.0f", v)
}

// ErrInvalidInput marks programmer errors rejected at the scoring boundary:
// negative windows, malformed rates, negative spend. Everything else degrades
// to zero-valued output instead of failing.
var ErrInvalidInput = errors.New("rewards: invalid input")

// BonusRow is one reward rule's contribution to a card's score.
type BonusRow struct {
	Category             string   `json:"category"`
	Rate                 float64  `json:"rate"`
	CapMonthly           *float64 `json:"cap_monthly"`
	EligibleSpendMonthly float64  `json:"eligible_spend_monthly"`
	MonthlyAmount        float64  `json:"monthly_amount"`
	AnnualAmount         float64  `json:"annual_amount"`
}

// BaseReward is the flat-rate portion of a card's score.
type BaseReward struct {
	Rate          float64 `json:"rate"`
	MonthlyAmount float64 `json:"monthly_amount"`
	AnnualAmount  float64 `json:"annual_amount"`
}

// WelcomeValue is the prorated welcome-offer contribution.
type WelcomeValue struct {
	Value      float64 `json:"value"`
	MinSpend   float64 `json:"min_spend"`
	WindowDays int     `json:"window_days"`
}

// Breakdown explains how a card's score was assembled.
type Breakdown struct {
	MonthlySpend float64       `json:"monthly_spend"`
	Base         BaseReward    `json:"base"`
	Bonuses      []BonusRow    `json:"bonuses"`
	Welcome      *WelcomeValue `json:"welcome"`
}

// ScoredCard is a catalog card with its projected value for one spend mix.
type ScoredCard struct {
	ID            string               `json:"id,omitempty"`
	Slug          string               `json:"slug"`
	ProductName   string               `json:"product_name"`
	Issuer        string               `json:"issuer"`
	Network       string               `json:"network,omitempty"`
	LinkURL       string               `json:"link_url,omitempty"`
	ForeignTxFee  float64              `json:"foreign_tx_fee"`
	BaseCashback  float64              `json:"base_cashback"`
	AnnualFee     float64              `json:"annual_fee"`
	MonthlyReward float64              `json:"monthly_reward"`
	AnnualReward  float64              `json:"annual_reward"`
	Net           float64              `json:"net"`
	Active        bool                 `json:"active"`
	Rewards       []models.RewardRule  `json:"rewards"`
	WelcomeOffer  *models.WelcomeOffer `json:"welcome_offer"`
	Breakdown     Breakdown            `json:"breakdown"`
	Highlights    []string             `json:"highlights"`
}

// EffectiveCategoryRate is the canonical blended-rate formula: spend up to the
// cap earns the rule rate, overflow earns the base rate. Every caller that
// reports a single earn rate for a category at a given monthly spend uses
// this, so bulk ranking and single-purchase lookups can never disagree.
func EffectiveCategoryRate(baseRate, rate float64, capMonthly *float64, spend float64) float64 {
	if spend <= 0 {
		return rate
	}
	if capMonthly == nil || spend <= *capMonthly {
		return rate
	}
	capped := *capMonthly
	return (capped*rate + (spend-capped)*baseRate) / spend
}

func validRate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validateScoreInput(card models.CardProduct, monthlyTotal float64, windowDays int) error {
	if windowDays < 0 {
		return fmt.Errorf("%w: window days must not be negative", ErrInvalidInput)
	}
	if monthlyTotal < 0 || math.IsNaN(monthlyTotal) || math.IsInf(monthlyTotal, 0) {
		return fmt.Errorf("%w: monthly total must be a non-negative number", ErrInvalidInput)
	}
	if !validRate(card.BaseCashback) {
		return fmt.Errorf("%w: card %q has malformed base rate", ErrInvalidInput, card.Slug)
	}
	for _, rule := range card.Rewards {
		if !validRate(rule.Rate) {
			return fmt.Errorf("%w: card %q has malformed rate for category %q", ErrInvalidInput, card.Slug, rule.Category)
		}
		if rule.CapMonthly != nil && (!validRate(*rule.CapMonthly) || *rule.CapMonthly <= 0) {
			return fmt.Errorf("%w: card %q has malformed cap for category %q", ErrInvalidInput, card.Slug, rule.Category)
		}
	}
	if card.AnnualFee < 0 || math.IsNaN(card.AnnualFee) {
		return fmt.Errorf("%w: card %q has malformed annual fee", ErrInvalidInput, card.Slug)
	}
	return nil
}

// ScoreCard computes a card's projected monthly and annual reward for a spend
// mix, nets out the annual fee, and adds a prorated welcome-offer value. A
// card without reward rules degenerates to base-rate-only scoring; a zero
// monthly total yields all-zero rewards.
func ScoreCard(card models.CardProduct, mix Mix, monthlyTotal float64, windowDays int) (ScoredCard, error) {
	if err := validateScoreInput(card, monthlyTotal, windowDays); err != nil {
		return ScoredCard{}, err
	}

	baseRate := card.BaseCashback
	baseRewardMonthly := baseRate * monthlyTotal

	bonuses := make([]BonusRow, 0, len(card.Rewards))
	var bonusTotalMonthly float64
	for _, rule := range card.Rewards {
		if rule.Category == "" {
			continue
		}
		bonusRate := rule.Rate - baseRate
		if bonusRate < 0 {
			bonusRate = 0
		}
		categorySpend := monthlyTotal * mix[rule.Category]
		eligibleSpend := categorySpend
		if rule.CapMonthly != nil && categorySpend > *rule.CapMonthly {
			eligibleSpend = *rule.CapMonthly
		}
		bonusAmount := bonusRate * eligibleSpend
		bonusTotalMonthly += bonusAmount
		bonuses = append(bonuses, BonusRow{
			Category:             rule.Category,
			Rate:                 rule.Rate,
			CapMonthly:           rule.CapMonthly,
			EligibleSpendMonthly: round2(eligibleSpend),
			MonthlyAmount:        round2(bonusAmount),
			AnnualAmount:         round2(bonusAmount * 12),
		})
	}

	monthlyReward := baseRewardMonthly + bonusTotalMonthly
	annualReward := monthlyReward * 12

	var welcome *WelcomeValue
	if offer := card.WelcomeOffer; offer != nil && offer.BonusValueUSD > 0 {
		offerWindow := offer.WindowDays
		if offerWindow <= 0 {
			offerWindow = windowDays
		}
		welcomeValue := offer.BonusValueUSD
		if offer.MinSpend > 0 && monthlyTotal > 0 && offerWindow > 0 {
			spendAvailable := monthlyTotal * (float64(offerWindow) / DaysPerMonth)
			progress := spendAvailable / offer.MinSpend
			if progress > 1 {
				progress = 1
			}
			welcomeValue = offer.BonusValueUSD * progress
		}
		annualReward += welcomeValue
		if welcomeValue > 0 {
			welcome = &WelcomeValue{
				Value:      round2(welcomeValue),
				MinSpend:   offer.MinSpend,
				WindowDays: offerWindow,
			}
		}
	}

	net := annualReward - card.AnnualFee

	scored := ScoredCard{
		Slug:          card.Slug,
		ProductName:   card.ProductName,
		Issuer:        card.Issuer,
		Network:       card.Network,
		LinkURL:       card.LinkURL,
		ForeignTxFee:  card.ForeignTxFee,
		BaseCashback:  baseRate,
		AnnualFee:     card.AnnualFee,
		MonthlyReward: round2(monthlyReward),
		AnnualReward:  round2(annualReward),
		Net:           round2(net),
		Active:        card.Active,
		Rewards:       card.Rewards,
		WelcomeOffer:  card.WelcomeOffer,
		Breakdown: Breakdown{
			MonthlySpend: round2(monthlyTotal),
			Base: BaseReward{
				Rate:          baseRate,
				MonthlyAmount: round2(baseRewardMonthly),
				AnnualAmount:  round2(baseRewardMonthly * 12),
			},
			Bonuses: bonuses,
			Welcome: welcome,
		},
	}
	if !card.ID.IsZero() {
		scored.ID = card.ID.Hex()
	}
	scored.Highlights = buildHighlights(scored, monthlyTotal)
	return scored, nil
}

func buildHighlights(card ScoredCard, monthlyTotal float64) []string {
	ordered := make([]BonusRow, len(card.Breakdown.Bonuses))
	copy(ordered, card.Breakdown.Bonuses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MonthlyAmount > ordered[j].MonthlyAmount
	})

	highlights := make([]string, 0, len(ordered)+1)
	for _, bonus := range ordered {
		if bonus.MonthlyAmount <= 0 {
			continue
		}
		highlights = append(highlights, fmt.Sprintf("%.1f%% back on %s up to $%.0f/mo",
			bonus.Rate*100, bonus.Category, bonus.EligibleSpendMonthly))
	}
	if w := card.Breakdown.Welcome; w != nil && w.Value > 0 {
		spendText := "the required amount"
		if w.MinSpend > 0 {
			spendText = "$" + dollars(w.MinSpend)
		}
		highlights = append(highlights, fmt.Sprintf("Intro bonus worth ~$%s if you spend %s in %d days",
			dollars(w.Value), spendText, w.WindowDays))
	}
	if len(highlights) == 0 && card.BaseCashback > 0 && monthlyTotal > 0 {
		highlights = append(highlights, fmt.Sprintf("%.1f%% back on about $%s in monthly spend",
			card.BaseCashback*100, dollars(monthlyTotal)))
	}
	return highlights
}
