package fiscal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrIncomeNotCovered is returned under the strict policy when a taxable
// income is above the top bound of the bracket table, or the table is empty.
var ErrIncomeNotCovered = errors.New("taxable income is not covered by the bracket table")

// CalculateISR computes the income tax of a taxable income with a progressive
// bracket table.
//
// The bracket is the first one, scanning ascending, whose [LowerLimit, Limit]
// contains the income. An income above the top bound is taxed with the last
// bracket. The tax is FixedFee + (income - LowerLimit) * Rate, floored at 0
// and rounded to the currency fraction. A non positive income has no tax.
func CalculateISR(taxable Money, brackets []TaxBracket) Money {
	tax, _ := bracketTax(taxable, brackets, ExtrapolateLastBracket)
	return tax
}

// ISR computes the income tax with the configured brackets and extrapolation policy.
func (c *FiscalConfig) ISR(taxable Money) (Money, error) {
	return bracketTax(taxable.In(c.currency()), c.Brackets, c.policy())
}

func bracketTax(taxable Money, brackets []TaxBracket, policy Extrapolation) (Money, error) {
	zero := Money{cur: taxable.cur}
	if !taxable.IsPositive() {
		return zero, nil
	}
	if len(brackets) == 0 {
		if policy == StrictCoverage {
			return zero, fmt.Errorf("%w: %s, the table is empty", ErrIncomeNotCovered, taxable)
		}
		return zero, nil
	}
	income := taxable.Decimal()
	b, covered := findBracket(income, brackets)
	if !covered && policy == StrictCoverage {
		return zero, fmt.Errorf("%w: %s", ErrIncomeNotCovered, taxable)
	}
	tax := b.FixedFee.Add(income.Sub(b.LowerLimit).Mul(b.Rate))
	return Money{value: tax, cur: taxable.cur}.NonNegative().Round(), nil
}

// findBracket returns the bracket to apply to income, and whether the table
// actually covers it.
func findBracket(income decimal.Decimal, brackets []TaxBracket) (TaxBracket, bool) {
	for _, b := range brackets {
		if b.contains(income) {
			return b, true
		}
	}
	if income.LessThan(brackets[0].LowerLimit) {
		return brackets[0], true
	}
	// either in a gap between two brackets, or above the top bound.
	last := 0
	for i, b := range brackets {
		if b.LowerLimit.LessThanOrEqual(income) {
			last = i
		}
	}
	return brackets[last], last < len(brackets)-1
}

// IVAResult details the value added tax of a period.
type IVAResult struct {
	Charged    Money `json:"charged"`    // IVA charged on income
	Creditable Money `json:"creditable"` // IVA paid on deductible expenses
	Retained   Money `json:"retained"`   // IVA withheld by customers
	Payable    Money `json:"payable"`
	Credit     Money `json:"credit"` // balance in favor when creditable exceeds charged
}

// CalculateIVA computes the IVA of a period: charged = income × rate,
// creditable = deductibleExpenses × rate. The difference is either payable or,
// when negative, reported as a credit balance. Each figure is rounded.
func CalculateIVA(income, deductibleExpenses Money, rate decimal.Decimal) IVAResult {
	return calculateIVA(income, deductibleExpenses, rate, decimal.Zero)
}

// IVA computes the IVA with the configured rate and retention rate.
func (c *FiscalConfig) IVA(income, deductibleExpenses Money) IVAResult {
	return calculateIVA(income.In(c.currency()), deductibleExpenses.In(c.currency()), c.IVARate, c.IVARetentionRate)
}

func calculateIVA(income, deductible Money, rate, retention decimal.Decimal) IVAResult {
	income, deductible = income.NonNegative(), deductible.NonNegative()
	r := IVAResult{
		Charged:    income.Mul(rate).Round(),
		Creditable: deductible.Mul(rate).Round(),
		Retained:   income.Mul(retention).Round(),
	}
	net := r.Charged.Sub(r.Creditable).Sub(r.Retained).Round()
	r.Payable = net.NonNegative()
	r.Credit = net.Neg().NonNegative()
	return r
}

// EffectiveRate returns totalTax / totalIncome in percent, 0 when there is no income.
func EffectiveRate(totalTax, totalIncome Money) Percent {
	if !totalIncome.IsPositive() {
		return 0
	}
	return Percent(round2(totalTax.Ratio(totalIncome) * 100))
}
