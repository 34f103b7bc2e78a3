package fiscal

import (
	"math"
	"slices"

	"github.com/etnz/fiscal/date"
)

// Trend is the direction of a cash flow forecast.
type Trend string

// Trends of a forecast.
const (
	Improving        Trend = "improving"
	Declining        Trend = "declining"
	Stable           Trend = "stable"
	InsufficientData Trend = "insufficient_data"
)

// MonthBucket holds the totals of a calendar month.
type MonthBucket struct {
	Month    string `json:"month"` // 2024-03
	Range    Range  `json:"-"`
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"` // positive
	Balance  Money  `json:"balance"`  // income - expenses
}

// ForecastPeriod is the projection of one future month.
type ForecastPeriod struct {
	PeriodIndex       int     `json:"periodIndex"` // 1 for the month after the history
	Month             string  `json:"month"`
	ProjectedIncome   Money   `json:"projectedIncome"`
	ProjectedExpenses Money   `json:"projectedExpenses"`
	NetCashFlow       Money   `json:"netCashFlow"`
	ProjectedBalance  Money   `json:"projectedBalance"`
	Confidence        float64 `json:"confidence"` // 0 to 100
}

// Forecast is the result of ForecastCashFlow.
type Forecast struct {
	Currency        string           `json:"currency"`
	Trend           Trend            `json:"trend"`
	IncomeSlope     float64          `json:"incomeSlope"`
	ExpenseSlope    float64          `json:"expenseSlope"`
	StartingBalance Money            `json:"startingBalance"`
	History         []MonthBucket    `json:"history"`
	Periods         []ForecastPeriod `json:"periods"`
}

// ForecastOptions tunes ForecastCashFlow.
type ForecastOptions struct {
	// StartingBalance is the balance the projection starts from. When nil, or
	// in another currency than the ledger, it is the net of the whole history.
	StartingBalance *Money
	Metrics         *Metrics
}

// MonthlyBuckets aggregates transactions per calendar month, in chronological
// order. Only months with transactions are returned. Transfers, undated
// transactions and amounts in another currency than the first one of the
// ledger are ignored.
func MonthlyBuckets(txs []Transaction) []MonthBucket {
	cur := currencyOf(txs)
	index := make(map[Date]int) // first day of the month -> position in buckets
	var buckets []MonthBucket
	for _, tx := range txs {
		if !tx.Dated() || tx.IsTransfer() || tx.Amount.IsZero() || !tx.Amount.IsIn(cur) {
			continue
		}
		r := date.NewRange(tx.Date, date.Monthly)
		i, ok := index[r.From]
		if !ok {
			i = len(buckets)
			index[r.From] = i
			buckets = append(buckets, MonthBucket{Month: r.Identifier(), Range: r, Income: M(0, cur), Expenses: M(0, cur)})
		}
		b := &buckets[i]
		amount := tx.Amount.In(cur)
		if amount.IsPositive() {
			b.Income = b.Income.Add(amount)
		} else {
			b.Expenses = b.Expenses.Add(amount.Abs())
		}
	}
	slices.SortFunc(buckets, func(a, b MonthBucket) int { return b.Range.From.DaysBetween(a.Range.From) })
	for i := range buckets {
		b := &buckets[i]
		b.Income, b.Expenses = b.Income.Round(), b.Expenses.Round()
		b.Balance = b.Income.Sub(b.Expenses)
	}
	return buckets
}

// ForecastCashFlow projects income, expenses and balance over the next
// periods months.
//
// Income and expenses are each fitted with an ordinary least squares line
// over the month index of the history, and projected, floored at 0. The
// confidence of a projection decreases with the variability of the history
// and with the distance: max(0.3, 0.9 - min(0.4, cv/2) - 0.1*(k-1)) for the
// k-th month, where cv is the coefficient of variation of the monthly
// income plus expenses.
//
// With less than two months of history, the trend is insufficient_data and
// there is no projection.
func ForecastCashFlow(txs []Transaction, periods int, opts ForecastOptions) Forecast {
	stop := opts.Metrics.Track("forecast", len(txs))

	cur := currencyOf(txs)
	history := MonthlyBuckets(txs)
	f := Forecast{
		Currency: cur,
		Trend:    InsufficientData,
		History:  history,
		Periods:  []ForecastPeriod{},
	}
	if history == nil {
		f.History = []MonthBucket{}
	}

	balance := M(0, cur)
	for _, b := range history {
		balance = balance.Add(b.Balance)
	}
	if opts.StartingBalance != nil && opts.StartingBalance.IsIn(cur) {
		balance = opts.StartingBalance.In(cur)
	}
	f.StartingBalance = balance.Round()

	n := len(history)
	if n < 2 {
		stop(0)
		return f
	}

	incomes := make([]float64, n)
	expenses := make([]float64, n)
	totals := make([]float64, n)
	for i, b := range history {
		incomes[i] = b.Income.Float()
		expenses[i] = b.Expenses.Float()
		totals[i] = incomes[i] + expenses[i]
	}
	incomeSlope, incomeIntercept := linearRegression(incomes)
	expenseSlope, expenseIntercept := linearRegression(expenses)
	f.IncomeSlope, f.ExpenseSlope = round2(incomeSlope), round2(expenseSlope)
	switch {
	case incomeSlope > expenseSlope:
		f.Trend = Improving
	case incomeSlope < expenseSlope:
		f.Trend = Declining
	default:
		f.Trend = Stable
	}

	variability := min(0.4, coefficientOfVariation(totals)*0.5)
	last := history[n-1].Range.From
	for k := 1; k <= periods; k++ {
		x := float64(n + k - 1)
		income := M(math.Max(0, incomeSlope*x+incomeIntercept), cur).Round()
		expense := M(math.Max(0, expenseSlope*x+expenseIntercept), cur).Round()
		net := income.Sub(expense)
		balance = balance.Add(net).Round()
		confidence := math.Max(0.3, 0.9-variability-float64(k-1)*0.1)

		f.Periods = append(f.Periods, ForecastPeriod{
			PeriodIndex:       k,
			Month:             date.NewRange(last.AddMonths(k), date.Monthly).Identifier(),
			ProjectedIncome:   income,
			ProjectedExpenses: expense,
			NetCashFlow:       net,
			ProjectedBalance:  balance,
			Confidence:        round2(confidence * 100),
		})
	}
	stop(len(f.Periods))
	return f
}

// linearRegression fits y = slope*x + intercept, x being the index in ys.
func linearRegression(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY float64
	for i, y := range ys {
		sumX += float64(i)
		sumY += y
	}
	meanX, meanY := sumX/n, sumY/n
	var sxy, sxx float64
	for i, y := range ys {
		dx := float64(i) - meanX
		sxy += dx * (y - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, meanY
	}
	slope = sxy / sxx
	return slope, meanY - slope*meanX
}

// coefficientOfVariation is the population standard deviation over the
// mean, 0 when the mean is 0.
func coefficientOfVariation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sq/float64(len(xs))) / math.Abs(mean)
}

// currencyOf returns the first currency found in txs, or DefaultCurrency.
func currencyOf(txs []Transaction) string {
	for _, tx := range txs {
		if c := tx.Amount.Currency(); c != "" {
			return c
		}
	}
	return DefaultCurrency
}
