package fiscal

import (
	"cmp"
	"slices"
)

// Priority of a recommendation.
type Priority string

// Priorities from the most urgent.
const (
	Critical Priority = "critical"
	High     Priority = "high"
	Medium   Priority = "medium"
	Low      Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case Critical:
		return 0
	case High:
		return 1
	case Medium:
		return 2
	default:
		return 3
	}
}

// Recommendation is an advice derived from a health score.
type Recommendation struct {
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
	Actions  []string `json:"actions"`
}

// recommendationRule emits a recommendation when a dimension's raw score is
// below a threshold.
type recommendationRule struct {
	dimension string
	below     float64
	rec       Recommendation
}

var recommendationRules = []recommendationRule{
	{Liquidity, 15, Recommendation{
		Category: Liquidity,
		Priority: High,
		Message:  "Short term obligations are not comfortably covered by liquid assets.",
		Actions: []string{
			"Speed up the collection of receivables",
			"Negotiate longer payment terms with suppliers",
			"Keep a cash reserve of at least one month of expenses",
		},
	}},
	{Profitability, 12.5, Recommendation{
		Category: Profitability,
		Priority: High,
		Message:  "Margins are low for the revenue generated.",
		Actions: []string{
			"Review prices against costs",
			"Cut recurring expenses that do not generate revenue",
			"Check that every deductible expense is recorded as such",
		},
	}},
	{Solvency, 10, Recommendation{
		Category: Solvency,
		Priority: Medium,
		Message:  "Debt is high compared to equity and assets.",
		Actions: []string{
			"Pay down the most expensive debt first",
			"Avoid financing operating expenses with debt",
		},
	}},
	{Efficiency, 7.5, Recommendation{
		Category: Efficiency,
		Priority: Medium,
		Message:  "Assets and receivables are slow to turn into revenue.",
		Actions: []string{
			"Invoice promptly and follow up on overdue invoices",
			"Sell or put to use idle assets",
		},
	}},
	{Growth, 5, Recommendation{
		Category: Growth,
		Priority: Low,
		Message:  "Revenue and profit are not growing compared to the previous period.",
		Actions: []string{
			"Look for new clients or services",
			"Compare the period with the same period of the previous year",
		},
	}},
}

// GenerateRecommendations inspects the raw dimension scores of h and returns
// the recommendations that apply, most urgent first.
//
// A current ratio below 1 always adds a critical liquidity risk, whatever the
// liquidity score.
func GenerateRecommendations(h HealthScore) []Recommendation {
	recs := []Recommendation{}
	if cr, ok := h.Dimension(Liquidity).metric("currentRatio"); ok && cr < 1 {
		recs = append(recs, Recommendation{
			Category: Liquidity,
			Priority: Critical,
			Message:  "Current liabilities exceed current assets: there is a risk of not meeting upcoming payments.",
			Actions: []string{
				"List the payments due in the next 30 days and secure the cash for them",
				"Defer non essential spending",
				"Consider a short term credit line",
			},
		})
	}
	for _, rule := range recommendationRules {
		if h.Dimension(rule.dimension).Score < rule.below {
			rec := rule.rec
			rec.Actions = slices.Clone(rec.Actions)
			recs = append(recs, rec)
		}
	}
	slices.SortStableFunc(recs, func(a, b Recommendation) int { return cmp.Compare(a.Priority.rank(), b.Priority.rank()) })
	return recs
}
