package fiscal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidConfig wraps every validation failure of a fiscal configuration.
var ErrInvalidConfig = errors.New("invalid fiscal configuration")

// bracketGapTolerance is the largest gap accepted between a bracket's limit
// and the next lower limit. Official tables start each bracket one cent
// above the previous limit.
var bracketGapTolerance = decimal.RequireFromString("0.01")

// ValidationResult is the outcome of a configuration check. It is returned,
// not raised, so that the caller decides whether to block a save.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func (v *ValidationResult) addf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
	v.IsValid = false
}

// Err returns nil for a valid result, otherwise an error joining every message.
func (v ValidationResult) Err() error {
	if v.IsValid {
		return nil
	}
	errs := make([]error, 0, len(v.Errors)+1)
	errs = append(errs, ErrInvalidConfig)
	for _, msg := range v.Errors {
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}

// ValidateBrackets checks a bracket table: it must be non empty, start at 0,
// be ordered by lower limit, contiguous, and end with an unbounded bracket;
// rates must be fractions in [0,1] and fixed fees non negative.
func ValidateBrackets(brackets []TaxBracket) ValidationResult {
	return validateBrackets(brackets, true)
}

func validateBrackets(brackets []TaxBracket, requireUnbounded bool) ValidationResult {
	res := ValidationResult{IsValid: true, Errors: []string{}}
	if len(brackets) == 0 {
		res.addf("bracket table is empty")
		return res
	}

	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		n := i + 1 // brackets are numbered from 1 in messages
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			res.addf("bracket %d: rate %s is outside [0, 1]", n, b.Rate)
		}
		if b.FixedFee.IsNegative() {
			res.addf("bracket %d: fixed fee %s is negative", n, b.FixedFee)
		}
		if b.LowerLimit.IsNegative() {
			res.addf("bracket %d: lower limit %s is negative", n, b.LowerLimit)
		}
		if b.Bounded() && b.Limit.LessThanOrEqual(b.LowerLimit) {
			res.addf("bracket %d: limit %s must be greater than lower limit %s", n, b.Limit, b.LowerLimit)
		}
		if !b.Bounded() && i < len(brackets)-1 {
			res.addf("bracket %d: only the last bracket can be unbounded", n)
		}

		if i == 0 {
			if b.LowerLimit.GreaterThan(bracketGapTolerance) {
				res.addf("bracket 1: lower limit %s must be 0", b.LowerLimit)
			}
			continue
		}
		prev := brackets[i-1]
		if b.LowerLimit.LessThanOrEqual(prev.LowerLimit) {
			res.addf("bracket %d: lower limit %s is not above bracket %d lower limit %s", n, b.LowerLimit, i, prev.LowerLimit)
			continue
		}
		if !prev.Bounded() {
			continue // already reported
		}
		switch gap := b.LowerLimit.Sub(*prev.Limit); {
		case gap.IsNegative():
			res.addf("bracket %d: lower limit %s overlaps bracket %d limit %s", n, b.LowerLimit, i, prev.Limit)
		case gap.GreaterThan(bracketGapTolerance):
			res.addf("bracket %d: lower limit %s leaves a gap after bracket %d limit %s", n, b.LowerLimit, i, prev.Limit)
		}
	}

	if requireUnbounded && brackets[len(brackets)-1].Bounded() {
		res.addf("bracket %d: the last bracket must be unbounded", len(brackets))
	}
	return res
}

// Validate checks the whole configuration.
//
// Under the extrapolate policy a bounded top bracket is accepted, incomes
// above it are taxed with its rate.
func (c *FiscalConfig) Validate() ValidationResult {
	res := validateBrackets(c.Brackets, c.policy() == StrictCoverage)
	if _, err := ParseExtrapolation(string(c.Extrapolation)); err != nil {
		res.addf("%v", err)
	}
	one := decimal.NewFromInt(1)
	if c.IVARate.IsNegative() || c.IVARate.GreaterThan(one) {
		res.addf("IVA rate %s is outside [0, 1]", c.IVARate)
	}
	if c.IVARetentionRate.IsNegative() || c.IVARetentionRate.GreaterThan(c.IVARate) {
		res.addf("IVA retention rate %s is outside [0, %s]", c.IVARetentionRate, c.IVARate)
	}
	return res
}
