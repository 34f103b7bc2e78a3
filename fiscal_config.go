package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Extrapolation is the policy applied when a taxable income is not covered by
// the bracket table.
type Extrapolation string

const (
	// ExtrapolateLastBracket taxes incomes above the top bound with the last
	// bracket's fixed fee, lower limit and rate.
	ExtrapolateLastBracket Extrapolation = "extrapolate"
	// StrictCoverage requires the table to end with an unbounded bracket and
	// refuses to compute a tax for an uncovered income.
	StrictCoverage Extrapolation = "strict"
)

// ParseExtrapolation parses a policy name, the empty string is the default policy.
func ParseExtrapolation(s string) (Extrapolation, error) {
	switch e := Extrapolation(s); e {
	case "":
		return ExtrapolateLastBracket, nil
	case ExtrapolateLastBracket, StrictCoverage:
		return e, nil
	default:
		return "", fmt.Errorf("unknown extrapolation policy %q, want %q or %q", s, ExtrapolateLastBracket, StrictCoverage)
	}
}

// TaxBracket is one tier of a progressive income tax table.
type TaxBracket struct {
	LowerLimit decimal.Decimal  `json:"lowerLimit"`
	Limit      *decimal.Decimal `json:"limit"` // nil for the unbounded top bracket
	FixedFee   decimal.Decimal  `json:"fixedFee"`
	Rate       decimal.Decimal  `json:"rate"` // fraction, 0.1088 for 10.88%
}

// Bounded reports whether the bracket has an upper limit.
func (b TaxBracket) Bounded() bool { return b.Limit != nil }

// contains reports whether income is in [LowerLimit, Limit].
func (b TaxBracket) contains(income decimal.Decimal) bool {
	if income.LessThan(b.LowerLimit) {
		return false
	}
	return b.Limit == nil || income.LessThanOrEqual(*b.Limit)
}

// Equal reports whether both brackets hold the same values.
func (b TaxBracket) Equal(o TaxBracket) bool {
	if b.Bounded() != o.Bounded() {
		return false
	}
	if b.Bounded() && !b.Limit.Equal(*o.Limit) {
		return false
	}
	return b.LowerLimit.Equal(o.LowerLimit) && b.FixedFee.Equal(o.FixedFee) && b.Rate.Equal(o.Rate)
}

// NewBracket creates a bracket, a negative limit means unbounded.
func NewBracket(lowerLimit, limit, fixedFee, rate float64) TaxBracket {
	b := TaxBracket{
		LowerLimit: decimal.NewFromFloat(lowerLimit),
		FixedFee:   decimal.NewFromFloat(fixedFee),
		Rate:       decimal.NewFromFloat(rate),
	}
	if limit >= 0 {
		l := decimal.NewFromFloat(limit)
		b.Limit = &l
	}
	return b
}

// FiscalConfig holds the statutory parameters of one fiscal year.
// It is loaded once per computation and never modified by the engine.
type FiscalConfig struct {
	Year             int             `json:"year"`
	Currency         string          `json:"currency"`
	Brackets         []TaxBracket    `json:"brackets"`
	IVARate          decimal.Decimal `json:"ivaRate"`
	IVARetentionRate decimal.Decimal `json:"ivaRetentionRate"`
	Extrapolation    Extrapolation   `json:"extrapolation,omitempty"`
}

// DefaultIVARate is the general IVA rate.
var DefaultIVARate = decimal.RequireFromString("0.16")

// currency returns the configured currency, or the default one.
func (c *FiscalConfig) currency() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// policy returns the configured extrapolation policy, or the default one.
func (c *FiscalConfig) policy() Extrapolation {
	if c.Extrapolation == "" {
		return ExtrapolateLastBracket
	}
	return c.Extrapolation
}

// Equal reports whether both configurations hold the same values.
func (c *FiscalConfig) Equal(o *FiscalConfig) bool {
	if c.Year != o.Year || c.currency() != o.currency() || c.policy() != o.policy() {
		return false
	}
	if !c.IVARate.Equal(o.IVARate) || !c.IVARetentionRate.Equal(o.IVARetentionRate) {
		return false
	}
	if len(c.Brackets) != len(o.Brackets) {
		return false
	}
	for i := range c.Brackets {
		if !c.Brackets[i].Equal(o.Brackets[i]) {
			return false
		}
	}
	return true
}

// DefaultFiscalConfig returns the annual ISR table for individuals (2024) and
// the general IVA rate, with no IVA retention.
//
// The table is written in contiguous form: each lower limit is the previous
// bracket's limit.
func DefaultFiscalConfig() *FiscalConfig {
	return &FiscalConfig{
		Year:     2024,
		Currency: DefaultCurrency,
		Brackets: []TaxBracket{
			NewBracket(0, 8952.49, 0, 0.0192),
			NewBracket(8952.49, 75984.55, 171.88, 0.064),
			NewBracket(75984.55, 133536.07, 4461.94, 0.1088),
			NewBracket(133536.07, 155229.80, 10723.55, 0.16),
			NewBracket(155229.80, 185852.57, 14194.54, 0.1792),
			NewBracket(185852.57, 374837.88, 19682.13, 0.2136),
			NewBracket(374837.88, 590795.99, 60049.40, 0.2352),
			NewBracket(590795.99, 1127926.84, 110842.74, 0.30),
			NewBracket(1127926.84, 1503902.46, 271981.99, 0.32),
			NewBracket(1503902.46, 4511707.37, 392294.17, 0.34),
			NewBracket(4511707.37, -1, 1414947.85, 0.35),
		},
		IVARate:       DefaultIVARate,
		Extrapolation: ExtrapolateLastBracket,
	}
}
