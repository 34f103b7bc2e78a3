package fiscal

import "math"

// Balances are the balance sheet figures of a business at a point in time.
type Balances struct {
	Cash               Money `json:"cash"`
	CurrentAssets      Money `json:"currentAssets"`
	CurrentLiabilities Money `json:"currentLiabilities"`
	AccountsReceivable Money `json:"accountsReceivable"`
	TotalAssets        Money `json:"totalAssets"`
	TotalLiabilities   Money `json:"totalLiabilities"`
	Equity             Money `json:"equity"`
}

// FinancialData is the input of the health score: balances and the results
// of the current and previous periods.
type FinancialData struct {
	Balances
	Revenue           Money `json:"revenue"`
	NetIncome         Money `json:"netIncome"`
	PreviousRevenue   Money `json:"previousRevenue"`
	PreviousNetIncome Money `json:"previousNetIncome"`
}

// FinancialDataFromTransactions computes revenue and net income of the
// current and previous ranges from the ledger. Balances are not in the ledger
// and are given by the caller. Transfers are ignored.
func FinancialDataFromTransactions(txs []Transaction, current, previous Range, b Balances) FinancialData {
	cur := currencyOf(txs)
	now, before := totalsOf(txs, current, cur), totalsOf(txs, previous, cur)
	return FinancialData{
		Balances:          b,
		Revenue:           now.income.Round(),
		NetIncome:         now.income.Sub(now.expenses).Round(),
		PreviousRevenue:   before.income.Round(),
		PreviousNetIncome: before.income.Sub(before.expenses).Round(),
	}
}

// Rating is the qualitative band of a health score.
type Rating string

// Ratings from best to worst.
const (
	Excellent      Rating = "excellent"
	Good           Rating = "good"
	Acceptable     Rating = "acceptable"
	NeedsAttention Rating = "needs attention"
)

// RatingOf returns the band of a score.
func RatingOf(score int) Rating {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Acceptable
	default:
		return NeedsAttention
	}
}

// Dimension names.
const (
	Liquidity     = "liquidity"
	Profitability = "profitability"
	Solvency      = "solvency"
	Efficiency    = "efficiency"
	Growth        = "growth"
)

// DimensionScore is the partial score of one dimension.
// Metrics only holds the ratios that are defined for the input, rounded for
// display.
type DimensionScore struct {
	Name    string             `json:"name"`
	Score   float64            `json:"score"`
	Max     float64            `json:"max"`
	Metrics map[string]float64 `json:"metrics"`

	raw map[string]float64 // unrounded Metrics
}

// metric returns the unrounded value of a metric when known, the displayed one otherwise.
func (d DimensionScore) metric(name string) (float64, bool) {
	if v, ok := d.raw[name]; ok {
		return v, true
	}
	v, ok := d.Metrics[name]
	return v, ok
}

// HealthScore is the composite financial health of a business.
type HealthScore struct {
	Score           int              `json:"score"` // 0 to 100
	Rating          Rating           `json:"rating"`
	Dimensions      []DimensionScore `json:"dimensions"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Dimension returns the partial score by name.
func (h HealthScore) Dimension(name string) DimensionScore {
	for _, d := range h.Dimensions {
		if d.Name == name {
			return d
		}
	}
	return DimensionScore{Name: name}
}

// ScoreHealth computes the health score of the data.
//
// Five dimensions add up to 100 points: liquidity (30), profitability (25),
// solvency (20), efficiency (15), and growth (10). Each one is the sum of
// the tiers reached by two ratios, see the scoring topic for the thresholds.
// A ratio that cannot be computed, like a margin without revenue, scores 0.
func ScoreHealth(data FinancialData) HealthScore {
	dims := []DimensionScore{
		scoreLiquidity(data),
		scoreProfitability(data),
		scoreSolvency(data),
		scoreEfficiency(data),
		scoreGrowth(data),
	}
	var total float64
	for _, d := range dims {
		total += d.Score
	}
	score := min(100, int(math.Round(total)))
	h := HealthScore{
		Score:      score,
		Rating:     RatingOf(score),
		Dimensions: dims,
	}
	h.Recommendations = GenerateRecommendations(h)
	return h
}

// ratio returns a/b, ok is false when b is not positive.
func ratio(a, b Money) (float64, bool) {
	if !b.IsPositive() {
		return 0, false
	}
	return a.Ratio(b), true
}

func scoreLiquidity(data FinancialData) DimensionScore {
	d := DimensionScore{Name: Liquidity, Max: 30, Metrics: map[string]float64{}, raw: map[string]float64{}}

	if cr, ok := ratio(data.CurrentAssets, data.CurrentLiabilities); ok {
		d.Metrics["currentRatio"] = round2(cr)
		d.raw["currentRatio"] = cr
		d.Score += currentRatioPoints(cr)
	} else if data.CurrentAssets.IsPositive() {
		d.Score += currentRatioPoints(math.Inf(1))
	}

	if cr, ok := ratio(data.Cash, data.CurrentLiabilities); ok {
		d.Metrics["cashRatio"] = round2(cr)
		d.Score += cashRatioPoints(cr)
	} else if data.Cash.IsPositive() {
		d.Score += cashRatioPoints(math.Inf(1))
	}
	return d
}

func currentRatioPoints(r float64) float64 {
	switch {
	case r >= 2:
		return 15
	case r >= 1.5:
		return 12
	case r >= 1:
		return 8
	case r >= 0.5:
		return 4
	default:
		return 0
	}
}

func cashRatioPoints(r float64) float64 {
	switch {
	case r >= 1:
		return 15
	case r >= 0.5:
		return 10
	case r >= 0.2:
		return 5
	default:
		return 0
	}
}

func scoreProfitability(data FinancialData) DimensionScore {
	d := DimensionScore{Name: Profitability, Max: 25, Metrics: map[string]float64{}}

	if margin, ok := ratio(data.NetIncome, data.Revenue); ok {
		margin *= 100
		d.Metrics["netMargin"] = round2(margin)
		switch {
		case margin >= 20:
			d.Score += 15
		case margin >= 10:
			d.Score += 11
		case margin >= 5:
			d.Score += 7
		case margin >= 0:
			d.Score += 3
		}
	}

	if roa, ok := ratio(data.NetIncome, data.TotalAssets); ok {
		roa *= 100
		d.Metrics["returnOnAssets"] = round2(roa)
		switch {
		case roa >= 10:
			d.Score += 10
		case roa >= 5:
			d.Score += 7
		case roa >= 2:
			d.Score += 4
		case roa > 0:
			d.Score += 2
		}
	}
	return d
}

func scoreSolvency(data FinancialData) DimensionScore {
	d := DimensionScore{Name: Solvency, Max: 20, Metrics: map[string]float64{}}

	// negative equity scores nothing.
	if de, ok := ratio(data.TotalLiabilities, data.Equity); ok {
		d.Metrics["debtToEquity"] = round2(de)
		switch {
		case de <= 0.5:
			d.Score += 10
		case de <= 1:
			d.Score += 7
		case de <= 2:
			d.Score += 4
		}
	}

	if da, ok := ratio(data.TotalLiabilities, data.TotalAssets); ok {
		d.Metrics["debtToAssets"] = round2(da)
		switch {
		case da <= 0.3:
			d.Score += 10
		case da <= 0.5:
			d.Score += 7
		case da <= 0.7:
			d.Score += 4
		}
	}
	return d
}

func scoreEfficiency(data FinancialData) DimensionScore {
	d := DimensionScore{Name: Efficiency, Max: 15, Metrics: map[string]float64{}}

	if rt, ok := ratio(data.Revenue, data.AccountsReceivable); ok {
		d.Metrics["receivablesTurnover"] = round2(rt)
		d.Score += receivablesTurnoverPoints(rt)
	} else if data.Revenue.IsPositive() {
		// nothing left to collect
		d.Score += receivablesTurnoverPoints(math.Inf(1))
	}

	if at, ok := ratio(data.Revenue, data.TotalAssets); ok {
		d.Metrics["assetTurnover"] = round2(at)
		switch {
		case at >= 1.5:
			d.Score += 7
		case at >= 1:
			d.Score += 5
		case at >= 0.5:
			d.Score += 3
		case at > 0:
			d.Score += 1
		}
	}
	return d
}

func receivablesTurnoverPoints(r float64) float64 {
	switch {
	case r >= 12:
		return 8
	case r >= 6:
		return 6
	case r >= 4:
		return 4
	case r >= 2:
		return 2
	default:
		return 0
	}
}

func scoreGrowth(data FinancialData) DimensionScore {
	d := DimensionScore{Name: Growth, Max: 10, Metrics: map[string]float64{}}

	if g, ok := growth(data.Revenue, data.PreviousRevenue); ok {
		d.Metrics["revenueGrowth"] = round2(g)
		d.Score += growthPoints(g)
	}
	if g, ok := growth(data.NetIncome, data.PreviousNetIncome); ok {
		d.Metrics["profitGrowth"] = round2(g)
		d.Score += growthPoints(g)
	}
	return d
}

// growth returns the change from previous to current in percent, ok is
// false when there is no positive previous value to compare to.
func growth(current, previous Money) (float64, bool) {
	if !previous.IsPositive() {
		return 0, false
	}
	return current.Sub(previous).Ratio(previous) * 100, true
}

func growthPoints(g float64) float64 {
	switch {
	case g >= 20:
		return 5
	case g >= 10:
		return 4
	case g >= 5:
		return 3
	case g >= 0:
		return 1
	default:
		return 0
	}
}
