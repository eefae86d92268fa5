package rewards

import (
	"sort"

	"github.com/swipecoach/backend/internal/models"
)

// RankCatalog scores every card and returns them sorted by net value,
// descending, truncated to limit (limit <= 0 means no truncation). Ties on
// net keep catalog iteration order. An empty mix or non-positive monthly
// total is no signal to score against, so the result is empty. Cards that
// fail input validation are skipped; the caller is expected to have
// pre-filtered to active products.
func RankCatalog(cards []models.CardProduct, mix Mix, monthlyTotal float64, windowDays int, limit int) ([]ScoredCard, error) {
	if len(mix) == 0 || monthlyTotal <= 0 {
		return []ScoredCard{}, nil
	}

	scored := make([]ScoredCard, 0, len(cards))
	var firstErr error
	for _, card := range cards {
		sc, err := ScoreCard(card, mix, monthlyTotal, windowDays)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Net > scored[j].Net
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, firstErr
}
