package fiscal

import "fmt"

// TaxSummary is the tax position over a range of dates.
type TaxSummary struct {
	Range         Range     `json:"range"`
	Currency      string    `json:"currency"`
	Income        Money     `json:"income"`
	Expenses      Money     `json:"expenses"`
	Deductions    Money     `json:"deductions"`
	TaxableBase   Money     `json:"taxableBase"`
	ISR           Money     `json:"isr"`
	IVA           IVAResult `json:"iva"`
	TotalTax      Money     `json:"totalTax"`
	EffectiveRate Percent   `json:"effectiveRate"`
	NetIncome     Money     `json:"netIncome"`
}

// totals accumulates the amounts of a range in one currency. Transfers,
// undated transactions and amounts in another currency are excluded.
type totals struct {
	income     Money // sum of positive amounts
	expenses   Money // sum of negative amounts, as a positive value
	deductions Money // deductible part of expenses, as a positive value
}

func totalsOf(txs []Transaction, r Range, cur string) totals {
	t := totals{income: M(0, cur), expenses: M(0, cur), deductions: M(0, cur)}
	for _, tx := range txs {
		if !tx.Dated() || !r.Contains(tx.Date) || !tx.Amount.IsIn(cur) {
			continue
		}
		amount := tx.Amount.In(cur)
		switch {
		case tx.IsIncome():
			t.income = t.income.Add(amount)
		case tx.IsExpense():
			t.expenses = t.expenses.Add(amount.Abs())
			if tx.Deductible {
				t.deductions = t.deductions.Add(amount.Abs())
			}
		}
	}
	return t
}

// Summarize computes the tax position of the transactions in r.
//
// The taxable base is income minus deductible expenses, floored at 0. IVA uses
// the configured retention. The total tax is ISR plus IVA payable, and the net
// income is what remains of income after every expense and the total tax.
func Summarize(txs []Transaction, cfg *FiscalConfig, r Range) (TaxSummary, error) {
	cur := cfg.currency()
	t := totalsOf(txs, r, cur)

	s := TaxSummary{
		Range:       r,
		Currency:    cur,
		Income:      t.income.Round(),
		Expenses:    t.expenses.Round(),
		Deductions:  t.deductions.Round(),
		TaxableBase: t.income.Sub(t.deductions).NonNegative().Round(),
	}
	isr, err := cfg.ISR(s.TaxableBase)
	if err != nil {
		return s, fmt.Errorf("cannot compute ISR for %s: %w", r.Identifier(), err)
	}
	s.ISR = isr
	s.IVA = cfg.IVA(s.Income, s.Deductions)
	s.TotalTax = s.ISR.Add(s.IVA.Payable).Round()
	s.EffectiveRate = EffectiveRate(s.TotalTax, s.Income)
	s.NetIncome = s.Income.Sub(s.Expenses).Sub(s.TotalTax).Round()
	return s, nil
}
