package rewards

import (
	"fmt"

	"github.com/swipecoach/backend/internal/models"
)

// Moment is a short narrative observation about a spend window.
type Moment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Type  string `json:"type"`
}

// MoneyMoments derives up to three observations from a spend window: whether
// one category dominates, the average daily pace, and any merchant visited
// three or more times.
func MoneyMoments(windowDays int, txns []models.Transaction) []Moment {
	if len(txns) == 0 || windowDays <= 0 {
		return []Moment{}
	}

	summary := Aggregate(txns, nil)
	moments := make([]Moment, 0, 3)

	if len(summary.Categories) > 0 && summary.Total > 0 {
		top := summary.Categories[0]
		if top.Share >= 0.55 {
			moments = append(moments, Moment{
				ID:    "moment-focus",
				Title: "Spotlight on your spending",
				Body: fmt.Sprintf("About %.0f%% of your recent spending went to %s. A small budget tweak could help balance things out.",
					top.Share*100, top.Key),
				Type: "alert",
			})
		} else {
			moments = append(moments, Moment{
				ID:    "moment-balance",
				Title: "Nice balance",
				Body: fmt.Sprintf("No single category dominated. %s was your largest area, but spending stayed well distributed.",
					top.Key),
				Type: "win",
			})
		}
	}

	if avgDaily := summary.Total / float64(windowDays); avgDaily > 0 {
		moments = append(moments, Moment{
			ID:    "moment-daily",
			Title: "Daily pace",
			Body:  fmt.Sprintf("You're averaging $%.2f per day over the last %d days.", avgDaily, windowDays),
			Type:  "tip",
		})
	}

	for _, m := range summary.Merchants {
		if m.Count >= 3 {
			moments = append(moments, Moment{
				ID:    "moment-merchant",
				Title: "Frequent stop spotted",
				Body: fmt.Sprintf("You visited %s %d times recently. If it's a favorite, consider setting a spending goal for it.",
					m.Name, m.Count),
				Type: "tip",
			})
			break
		}
	}

	if len(moments) > 3 {
		moments = moments[:3]
	}
	return moments
}
