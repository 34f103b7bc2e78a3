package fiscal

import (
	"fmt"

	"github.com/etnz/fiscal/date"
	"github.com/shopspring/decimal"
)

// ProvisionalMethod is the way the year-to-date base is taxed with an annual table.
type ProvisionalMethod string

const (
	// Cumulative taxes the year-to-date base directly with the annual table.
	Cumulative ProvisionalMethod = "cumulative"
	// Annualized projects the year-to-date base over twelve months, taxes it,
	// and takes back the elapsed share of the annual tax.
	Annualized ProvisionalMethod = "annualized"
)

// ParseProvisionalMethod parses a method name, the empty string is Cumulative.
func ParseProvisionalMethod(s string) (ProvisionalMethod, error) {
	switch m := ProvisionalMethod(s); m {
	case "":
		return Cumulative, nil
	case Cumulative, Annualized:
		return m, nil
	default:
		return "", fmt.Errorf("unknown provisional method %q, want %q or %q", s, Cumulative, Annualized)
	}
}

// ProvisionalPayment is the tax due for one month or quarter of a fiscal year.
type ProvisionalPayment struct {
	Period         string    `json:"period"` // 2024-03 or 2024-Q1
	Range          Range     `json:"range"`
	Income         Money     `json:"income"`
	Deductions     Money     `json:"deductions"`
	CumulativeBase Money     `json:"cumulativeBase"`
	CumulativeTax  Money     `json:"cumulativeTax"`
	PreviousTax    Money     `json:"previousTax"`
	ISRDue         Money     `json:"isrDue"`
	IVA            IVAResult `json:"iva"`
}

// ProvisionalSchedule computes the provisional payments of a fiscal year by
// the cumulative subtraction method.
//
// For each period, income and deductions are accumulated since January, the
// tax of the cumulative base is computed, and the payment due is the non
// negative difference with the tax of the previous cumulative base: income
// taxed in a previous period is never taxed again. IVA is not cumulative, it
// is computed on the period alone.
func ProvisionalSchedule(cfg *FiscalConfig, txs []Transaction, year int, period date.Period, method ProvisionalMethod) ([]ProvisionalPayment, error) {
	perYear := period.PerYear()
	if perYear == 0 {
		return nil, fmt.Errorf("provisional payments are monthly, quarterly or yearly, got %s", period)
	}
	monthsPerPeriod := 12 / perYear
	cur := cfg.currency()

	payments := make([]ProvisionalPayment, 0, perYear)
	cumIncome, cumDeductions, prevTax := M(0, cur), M(0, cur), M(0, cur)
	k := 0
	for r := range date.Year(year).Split(period) {
		k++
		t := totalsOf(txs, r, cur)
		cumIncome = cumIncome.Add(t.income)
		cumDeductions = cumDeductions.Add(t.deductions)
		base := cumIncome.Sub(cumDeductions).NonNegative().Round()

		tax, err := cumulativeTax(cfg, base, k*monthsPerPeriod, method)
		if err != nil {
			return nil, fmt.Errorf("provisional payment %s: %w", r.Identifier(), err)
		}

		payments = append(payments, ProvisionalPayment{
			Period:         r.Identifier(),
			Range:          r,
			Income:         t.income.Round(),
			Deductions:     t.deductions.Round(),
			CumulativeBase: base,
			CumulativeTax:  tax,
			PreviousTax:    prevTax,
			ISRDue:         tax.Sub(prevTax).NonNegative().Round(),
			IVA:            cfg.IVA(t.income, t.deductions),
		})
		prevTax = tax
	}
	return payments, nil
}

// cumulativeTax computes the tax of a year-to-date base after the given number of months.
func cumulativeTax(cfg *FiscalConfig, base Money, months int, method ProvisionalMethod) (Money, error) {
	switch method {
	case Annualized:
		factor := decimal.NewFromInt(12).Div(decimal.NewFromInt(int64(months)))
		annual, err := cfg.ISR(base.Mul(factor))
		if err != nil {
			return Money{}, err
		}
		share := decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12))
		return annual.Mul(share).Round(), nil
	case Cumulative, "":
		return cfg.ISR(base)
	default:
		return Money{}, fmt.Errorf("unknown provisional method %q", method)
	}
}
