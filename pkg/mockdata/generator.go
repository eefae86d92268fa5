// Package mockdata generates deterministic synthetic transactions for demo
// accounts. The same user, account, and seed version always produce the same
// transactions, keyed so re-seeding never duplicates documents.
package mockdata

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/models"
)

// Merchant is one entry of the synthetic merchant catalog.
type Merchant struct {
	ID          string
	Name        string
	MCC         string
	Category    string
	TicketMean  float64
	TicketStd   float64
	OnlineRatio float64
	Weight      float64
}

// Merchants is the catalog synthetic spend draws from.
var Merchants = []Merchant{
	{"heb", "H-E-B", "5411", "Grocery", 60, 25, 0.15, 1.5},
	{"costco", "Costco", "5300", "Grocery", 120, 60, 0.25, 1.0},
	{"starbucks", "Starbucks", "5814", "Food and Drink", 12, 6, 0.0, 1.3},
	{"chipotle", "Chipotle", "5814", "Food and Drink", 16, 7, 0.0, 1.0},
	{"doordash", "DoorDash", "5814", "Food and Drink", 34, 14, 1.0, 0.7},
	{"amazon", "Amazon", "5942", "Shopping", 40, 30, 1.0, 1.6},
	{"target", "Target", "5411", "Shopping", 45, 25, 0.5, 1.0},
	{"exxon", "Exxon", "5541", "Gas", 45, 15, 0.0, 1.2},
	{"uber", "Uber", "4121", "Transit", 18, 10, 1.0, 0.9},
	{"spotify", "Spotify", "5735", "Bills", 10.99, 0.5, 1.0, 0.7},
	{"netflix", "Netflix", "4899", "Bills", 15.49, 0.5, 1.0, 0.7},
	{"delta", "Delta Air Lines", "4511", "Travel", 300, 120, 1.0, 0.25},
}

type weightedCategory struct {
	name   string
	weight float64
}

// categoryWeights shape the overall spend mix. Order matters for determinism.
var categoryWeights = []weightedCategory{
	{"Grocery", 0.25},
	{"Food and Drink", 0.22},
	{"Shopping", 0.20},
	{"Gas", 0.12},
	{"Transit", 0.08},
	{"Bills", 0.09},
	{"Travel", 0.04},
}

// amountClamps bound sampled ticket sizes per category.
var amountClamps = map[string][2]float64{
	"Grocery":        {10, 220},
	"Food and Drink": {7, 65},
	"Shopping":       {5, 250},
	"Gas":            {20, 90},
	"Transit":        {5, 60},
	"Bills":          {5, 150},
	"Travel":         {80, 900},
}

type weightedHour struct {
	hour   int
	weight float64
}

var hourWeights = []weightedHour{
	{8, 1}, {9, 2}, {12, 3}, {17, 3}, {19, 2}, {21, 1},
}

const (
	refundProbability  = 0.015
	pendingProbability = 0.10
)

// Options control a generation run.
type Options struct {
	Count       int
	Days        int
	SeedVersion string
	Currency    string
	Now         time.Time
	OpenedAt    time.Time
}

func (o *Options) fill() {
	if o.Count <= 0 {
		o.Count = 120
	}
	if o.Days <= 0 {
		o.Days = 60
	}
	if o.SeedVersion == "" {
		o.SeedVersion = "v1"
	}
	if o.Currency == "" {
		o.Currency = "USD"
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	if o.OpenedAt.IsZero() {
		o.OpenedAt = o.Now.AddDate(0, 0, -365)
	}
}

// seededRNG derives the account's random stream from user, account, and seed
// version, so regeneration is reproducible.
func seededRNG(userID, accountID primitive.ObjectID, seedVersion string) *rand.Rand {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", userID.Hex(), accountID.Hex(), seedVersion)))
	seed := int64(binary.BigEndian.Uint64(sum[:8]) % math.MaxInt64)
	return rand.New(rand.NewSource(seed))
}

func pickCategory(rng *rand.Rand) string {
	total := 0.0
	for _, c := range categoryWeights {
		total += c.weight
	}
	r := rng.Float64() * total
	upto := 0.0
	for _, c := range categoryWeights {
		upto += c.weight
		if r <= upto {
			return c.name
		}
	}
	return categoryWeights[len(categoryWeights)-1].name
}

func pickMerchant(rng *rand.Rand, category string) Merchant {
	total := 0.0
	for _, m := range Merchants {
		if m.Category == category {
			total += m.Weight
		}
	}
	r := rng.Float64() * total
	upto := 0.0
	last := Merchants[0]
	for _, m := range Merchants {
		if m.Category != category {
			continue
		}
		last = m
		upto += m.Weight
		if r <= upto {
			return m
		}
	}
	return last
}

func pickHour(rng *rand.Rand) int {
	total := 0.0
	for _, h := range hourWeights {
		total += h.weight
	}
	r := rng.Float64() * total
	upto := 0.0
	for _, h := range hourWeights {
		upto += h.weight
		if r <= upto {
			return h.hour
		}
	}
	return hourWeights[len(hourWeights)-1].hour
}

// sampleAmount draws a lognormal-ish ticket around the merchant's mean,
// clamped to the category's plausible range.
func sampleAmount(rng *rand.Rand, merchant Merchant) float64 {
	mu := math.Log(math.Max(1.0, merchant.TicketMean)) - 0.5
	sigma := 0.35
	if merchant.TicketStd > 1 {
		sigma = math.Min(0.75, merchant.TicketStd/math.Max(5.0, merchant.TicketMean))
	}
	amt := math.Exp(rng.NormFloat64()*sigma + mu)

	clamp, ok := amountClamps[merchant.Category]
	if !ok {
		clamp = [2]float64{5, 250}
	}
	amt = math.Max(clamp[0], math.Min(clamp[1], amt))

	switch merchant.Category {
	case "Food and Drink":
		// tips and tax wobble
		amt *= 1.00 + 0.02*float64(rng.Intn(4)-1)
	case "Gas":
		if rng.Float64() < 0.4 {
			amt = math.Round(amt/5) * 5
		}
	}
	return math.Round(amt*100) / 100
}

// Generate produces the deterministic transaction set for one account. The
// caller persists them; SyntheticKey dedupes across repeated runs.
func Generate(userID, accountID primitive.ObjectID, opts Options) []models.Transaction {
	opts.fill()
	rng := seededRNG(userID, accountID, opts.SeedVersion)

	start := opts.Now.AddDate(0, 0, -opts.Days)
	if opts.OpenedAt.After(start) {
		start = opts.OpenedAt
	}
	spanDays := int(opts.Now.Sub(start).Hours() / 24)
	if spanDays < 0 {
		spanDays = 0
	}

	txns := make([]models.Transaction, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		day := start.AddDate(0, 0, rng.Intn(spanDays+1))
		authorizedAt := time.Date(day.Year(), day.Month(), day.Day(),
			pickHour(rng), rng.Intn(60), rng.Intn(60), 0, time.UTC)

		category := pickCategory(rng)
		merchant := pickMerchant(rng, category)
		amount := sampleAmount(rng, merchant)

		isRefund := rng.Float64() < refundProbability
		isPending := rng.Float64() < pendingProbability
		status := "posted"
		if isRefund {
			status = "refund"
		} else if isPending {
			status = "pending"
		}

		postedAt := authorizedAt
		if status != "pending" {
			lag := 0
			if category != "Bills" && category != "Transit" {
				lag = []int{0, 0, 1, 1, 2}[rng.Intn(5)]
			}
			postedAt = authorizedAt.AddDate(0, 0, lag)
		}

		channel := "in_store"
		if rng.Float64() < merchant.OnlineRatio {
			channel = "online"
		}

		signed := amount
		if isRefund {
			signed = -amount
		}

		keySrc := fmt.Sprintf("%s|%s|%s|%s|%.0f|%s|%d",
			userID.Hex(), accountID.Hex(), merchant.ID,
			authorizedAt.Format("2006-01-02"), amount, opts.SeedVersion, i)
		key := fmt.Sprintf("%x", sha1.Sum([]byte(keySrc)))

		txns = append(txns, models.Transaction{
			UserID:       userID,
			AccountID:    accountID,
			Amount:       signed,
			Currency:     opts.Currency,
			Category:     category,
			MerchantID:   merchant.ID,
			MerchantName: merchant.Name,
			MCC:          merchant.MCC,
			Status:       status,
			Channel:      channel,
			PostedAt:     postedAt,
			Synthetic:    true,
			SyntheticKey: key,
			SeedVersion:  opts.SeedVersion,
		})
	}
	return txns
}
