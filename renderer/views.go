package renderer

import (
	"fmt"

	"github.com/etnz/fiscal"
	"github.com/shopspring/decimal"
)

// provisionalView is a year of provisional payments with its totals.
type provisionalView struct {
	Year       int
	Method     fiscal.ProvisionalMethod
	Currency   string
	Payments   []fiscal.ProvisionalPayment
	Income     fiscal.Money
	Deductions fiscal.Money
	ISRDue     fiscal.Money
	IVAPayable fiscal.Money
}

func newProvisionalView(year int, method fiscal.ProvisionalMethod, payments []fiscal.ProvisionalPayment) provisionalView {
	v := provisionalView{Year: year, Method: method, Payments: payments}
	for _, p := range payments {
		v.Currency = p.Income.Currency()
		v.Income = v.Income.Add(p.Income)
		v.Deductions = v.Deductions.Add(p.Deductions)
		v.ISRDue = v.ISRDue.Add(p.ISRDue)
		v.IVAPayable = v.IVAPayable.Add(p.IVA.Payable)
	}
	return v
}

// bracketRow is a tax bracket formatted for display.
type bracketRow struct {
	Number     int
	LowerLimit string
	Limit      string
	FixedFee   string
	Rate       string
}

// configView is a fiscal configuration formatted for display.
type configView struct {
	Year             int
	Currency         string
	IVARate          string
	IVARetentionRate string // empty without retention
	Extrapolation    fiscal.Extrapolation
	Valid            bool
	Errors           []string
	Brackets         []bracketRow
}

func newConfigView(cfg *fiscal.FiscalConfig, res fiscal.ValidationResult) configView {
	cur := cfg.Currency
	if cur == "" {
		cur = fiscal.DefaultCurrency
	}
	policy := cfg.Extrapolation
	if policy == "" {
		policy = fiscal.ExtrapolateLastBracket
	}
	v := configView{
		Year:          cfg.Year,
		Currency:      cur,
		IVARate:       rate(cfg.IVARate),
		Extrapolation: policy,
		Valid:         res.IsValid,
		Errors:        res.Errors,
	}
	if !cfg.IVARetentionRate.IsZero() {
		v.IVARetentionRate = rate(cfg.IVARetentionRate)
	}
	for i, b := range cfg.Brackets {
		row := bracketRow{
			Number:     i + 1,
			LowerLimit: fiscal.M(b.LowerLimit, cur).String(),
			Limit:      "and above",
			FixedFee:   fiscal.M(b.FixedFee, cur).String(),
			Rate:       rate(b.Rate),
		}
		if b.Bounded() {
			row.Limit = fiscal.M(*b.Limit, cur).String()
		}
		v.Brackets = append(v.Brackets, row)
	}
	return v
}

// rate formats a fraction as a percentage.
func rate(r decimal.Decimal) string {
	return fmt.Sprintf("%s%%", r.Shift(2).String())
}
