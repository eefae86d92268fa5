package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swipecoach/backend/internal/models"
	"github.com/swipecoach/backend/internal/repositories"
	"github.com/swipecoach/backend/internal/utils"
)

// cadenceBucket is the acceptable median-interval range for one cadence.
type cadenceBucket struct {
	name    string
	minDays float64
	maxDays float64
}

// Tighter cadences are checked after the looser ones so an interval can only
// land in a single bucket.
var cadenceBuckets = []cadenceBucket{
	{"yearly", 360, 370},
	{"quarterly", 85, 95},
	{"monthly", 28, 32},
	{"biweekly", 13, 16},
	{"weekly", 6, 8},
}

const (
	recurringMinTxns     = 3
	recurringMaxVariance = 0.30
	recurringConfidence  = 0.85
	recurringLookbackDay = 400
)

// RecurringService detects recurring bills from transaction history and
// predicts the next charge for each.
type RecurringService struct {
	txnRepo       repositories.TransactionRepository
	recurringRepo repositories.RecurringRepository
	merchantRepo  repositories.MerchantRepository
	logger        *slog.Logger
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(
	txnRepo repositories.TransactionRepository,
	recurringRepo repositories.RecurringRepository,
	merchantRepo repositories.MerchantRepository,
	logger *slog.Logger,
) *RecurringService {
	return &RecurringService{
		txnRepo:       txnRepo,
		recurringRepo: recurringRepo,
		merchantRepo:  merchantRepo,
		logger:        logger,
	}
}

// DetectedGroup names one merchant the scan flagged as recurring.
type DetectedGroup struct {
	Merchant string `json:"merchant"`
	Period   string `json:"period"`
}

// Scan analyzes the user's history for recurring merchants. A merchant
// qualifies with at least three charges whose intervals land in a cadence
// bucket and whose amounts stay within 30% of the median. Each detection is
// persisted and, when the next charge is still ahead, a prediction is written.
func (s *RecurringService) Scan(ctx context.Context, userID primitive.ObjectID) ([]DetectedGroup, error) {
	since := time.Now().UTC().AddDate(0, 0, -recurringLookbackDay)
	txns, err := s.txnRepo.FindByUserSince(ctx, userID, since, nil)
	if err != nil {
		return nil, err
	}

	byMerchant := map[string][]models.Transaction{}
	order := []string{}
	for _, txn := range txns {
		name := txn.MerchantName
		if name == "" {
			name = txn.CleanDesc
		}
		if name == "" {
			continue
		}
		if _, seen := byMerchant[name]; !seen {
			order = append(order, name)
		}
		byMerchant[name] = append(byMerchant[name], txn)
	}

	now := time.Now().UTC()
	detected := []DetectedGroup{}
	for _, name := range order {
		group := byMerchant[name]
		if len(group) < recurringMinTxns {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].PostedAt.Before(group[j].PostedAt) })

		intervals := make([]float64, 0, len(group)-1)
		amounts := make([]float64, 0, len(group))
		for i, txn := range group {
			amounts = append(amounts, math.Abs(txn.Amount))
			if i > 0 {
				intervals = append(intervals, group[i].PostedAt.Sub(group[i-1].PostedAt).Hours()/24)
			}
		}

		medianInterval := median(intervals)
		amountMedian := median(amounts)
		variancePct := 0.0
		if amountMedian > 0 {
			variancePct = stddev(amounts) / amountMedian
		}

		period := ""
		for _, bucket := range cadenceBuckets {
			if medianInterval >= bucket.minDays && medianInterval <= bucket.maxDays {
				period = bucket.name
				break
			}
		}
		if period == "" || variancePct >= recurringMaxVariance {
			continue
		}

		last := group[len(group)-1]
		nextExpected := last.PostedAt.Add(time.Duration(medianInterval*24) * time.Hour)
		merchantID := last.MerchantID
		if merchantID == "" {
			merchantID = name
		}

		record := &models.RecurringGroup{
			UserID:         userID,
			MerchantID:     merchantID,
			MerchantName:   name,
			Period:         period,
			TypicalAmount:  round2(amountMedian),
			VariancePct:    variancePct,
			LastSeenAt:     last.PostedAt,
			NextExpectedAt: nextExpected,
			Confidence:     recurringConfidence,
		}
		groupID, err := s.recurringRepo.UpsertGroup(ctx, record)
		if err != nil {
			return nil, err
		}

		if nextExpected.After(now) {
			future := &models.FutureTransaction{
				UserID:           userID,
				MerchantID:       merchantID,
				RecurringGroupID: groupID,
				AmountPredicted:  round2(amountMedian),
				ExpectedAt:       nextExpected,
				Status:           "predicted",
				Explain:          fmt.Sprintf("%s, median $%.2f (±%.0f%%)", titleCase(period), amountMedian, variancePct*100),
				Confidence:       recurringConfidence,
			}
			if err := s.recurringRepo.UpsertFuture(ctx, future); err != nil {
				return nil, err
			}
		}
		detected = append(detected, DetectedGroup{Merchant: name, Period: period})
	}
	return detected, nil
}

// Groups returns the user's recurring bills, soonest expected first
func (s *RecurringService) Groups(ctx context.Context, userID primitive.ObjectID) ([]models.RecurringGroup, error) {
	return s.recurringRepo.FindGroupsByUser(ctx, userID)
}

// Upcoming returns the predicted charges that have not yet come due
func (s *RecurringService) Upcoming(ctx context.Context, userID primitive.ObjectID) ([]models.FutureTransaction, error) {
	return s.recurringRepo.FindUpcomingByUser(ctx, userID, time.Now().UTC())
}

// RelabelInput is the POST /transactions/relabel payload.
type RelabelInput struct {
	TransactionID primitive.ObjectID
	MerchantName  string
	CategoryL1    string
	CategoryL2    string
}

// RelabelResult reports the outcome of a relabel.
type RelabelResult struct {
	Updated    int64  `json:"updated"`
	MerchantID string `json:"merchant_id"`
}

// Relabel reassigns one transaction to a canonical merchant, creating the
// merchant record if it does not exist yet.
func (s *RecurringService) Relabel(ctx context.Context, userID primitive.ObjectID, input RelabelInput) (*RelabelResult, error) {
	canonical := utils.NormalizeMerchantName(input.MerchantName)
	if strings.TrimSpace(input.MerchantName) == "" {
		return nil, fmt.Errorf("%w: merchant name is required", ErrValidation)
	}
	merchant, err := s.merchantRepo.GetOrCreate(ctx, canonical)
	if err != nil {
		return nil, err
	}
	updated, err := s.txnRepo.Relabel(ctx, userID, input.TransactionID, merchant.ID, canonical, input.CategoryL1, input.CategoryL2)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, fmt.Errorf("%w: transaction", ErrNotFound)
	}
	return &RelabelResult{Updated: updated, MerchantID: merchant.ID.Hex()}, nil
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stddev is the sample standard deviation, zero for fewer than two values
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
