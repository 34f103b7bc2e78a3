package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/date"
)

// rangeFlags select a range of dates by its period and a day in it.
type rangeFlags struct {
	period string
	day    string
}

func (r *rangeFlags) SetFlags(f *flag.FlagSet, period string) {
	f.StringVar(&r.period, "period", period, "Period of the report (day, week, month, quarter, year).")
	f.StringVar(&r.day, "d", "", "A day in the period of the report, today by default. See 'fsc topic dates'.")
}

func (r *rangeFlags) Range() (fiscal.Range, error) {
	period, err := date.ParsePeriod(r.period)
	if err != nil {
		return fiscal.Range{}, err
	}
	on := fiscal.Today()
	if r.day != "" {
		if on, err = fiscal.ParseDate(r.day); err != nil {
			return fiscal.Range{}, fmt.Errorf("invalid date %q: %w", r.day, err)
		}
	}
	return date.NewRange(on, period), nil
}

// balancesFlags hold the balance sheet figures the ledger cannot provide.
type balancesFlags struct {
	cash, currentAssets, currentLiabilities, receivables float64
	totalAssets, totalLiabilities, equity                 float64
}

func (b *balancesFlags) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&b.cash, "cash", 0, "Cash and equivalents.")
	f.Float64Var(&b.currentAssets, "current-assets", 0, "Current assets.")
	f.Float64Var(&b.currentLiabilities, "current-liabilities", 0, "Current liabilities.")
	f.Float64Var(&b.receivables, "receivables", 0, "Accounts receivable.")
	f.Float64Var(&b.totalAssets, "total-assets", 0, "Total assets.")
	f.Float64Var(&b.totalLiabilities, "total-liabilities", 0, "Total liabilities.")
	f.Float64Var(&b.equity, "equity", 0, "Equity.")
}

func (b *balancesFlags) Balances(cur string) fiscal.Balances {
	return fiscal.Balances{
		Cash:               fiscal.M(b.cash, cur),
		CurrentAssets:      fiscal.M(b.currentAssets, cur),
		CurrentLiabilities: fiscal.M(b.currentLiabilities, cur),
		AccountsReceivable: fiscal.M(b.receivables, cur),
		TotalAssets:        fiscal.M(b.totalAssets, cur),
		TotalLiabilities:   fiscal.M(b.totalLiabilities, cur),
		Equity:             fiscal.M(b.equity, cur),
	}
}

// parseAmount parses an optional amount, nil when empty.
func parseAmount(s, cur string) (*fiscal.Money, error) {
	if s == "" {
		return nil, nil
	}
	var m fiscal.Money
	if err := m.UnmarshalJSON([]byte(s)); err != nil {
		return nil, err
	}
	m = m.In(cur)
	return &m, nil
}
