package fiscal

import (
	"fmt"
	"strings"
)

// Kind is the type tag a ledger puts on a transaction.
type Kind string

// Kinds used for tagging transactions.
const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
)

// ParseKind parses a kind, case insensitive. The empty string is a valid, unset, kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindIncome, KindExpense, KindTransfer:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Flow is the direction of money for a transaction.
type Flow int

const (
	// NoFlow is the flow of a transaction that has no amount and no kind.
	NoFlow Flow = iota
	Inflow
	Outflow
)

func (f Flow) String() string {
	switch f {
	case Inflow:
		return "income"
	case Outflow:
		return "expense"
	default:
		return "none"
	}
}

// Transaction is a normalized ledger entry.
//
// Amount is signed: positive for income, negative for expenses. Transactions
// are values, the engine never modifies the ones it receives.
type Transaction struct {
	ID          string
	Date        Date
	Amount      Money
	Kind        Kind
	Category    string
	Account     string
	Description string
	Deductible  bool
}

// NewTransaction creates a normalized transaction.
// A positive amount tagged as an expense is negated, see Normalize.
func NewTransaction(id string, on Date, amount Money, kind Kind, category, account, description string, deductible bool) Transaction {
	return Transaction{
		ID:          id,
		Date:        on,
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Account:     account,
		Description: description,
		Deductible:  deductible,
	}.Normalize()
}

// Normalize returns a copy of t using the signed amount convention.
//
// Ledgers use two conventions: signed amounts, or unsigned amounts with an
// income/expense type. An expense with a positive amount and an income with a
// negative amount are therefore flipped.
func (t Transaction) Normalize() Transaction {
	switch {
	case t.Kind == KindExpense && t.Amount.IsPositive():
		t.Amount = t.Amount.Neg()
	case t.Kind == KindIncome && t.Amount.IsNegative():
		t.Amount = t.Amount.Neg()
	}
	return t
}

// Flow returns the direction of the transaction: the sign of the amount, or
// the kind when the amount is zero.
func (t Transaction) Flow() Flow {
	switch {
	case t.Amount.IsPositive():
		return Inflow
	case t.Amount.IsNegative():
		return Outflow
	case t.Kind == KindIncome:
		return Inflow
	case t.Kind == KindExpense:
		return Outflow
	default:
		return NoFlow
	}
}

// IsTransfer reports whether the ledger tagged t as a transfer between accounts.
func (t Transaction) IsTransfer() bool { return t.Kind == KindTransfer }

// IsIncome reports whether t is a revenue, transfers excluded.
func (t Transaction) IsIncome() bool { return !t.IsTransfer() && t.Amount.IsPositive() }

// IsExpense reports whether t is a spending, transfers excluded.
func (t Transaction) IsExpense() bool { return !t.IsTransfer() && t.Amount.IsNegative() }

// Dated reports whether t has a date. Undated transactions are skipped by
// every computation that needs one.
func (t Transaction) Dated() bool { return !t.Date.IsZero() }

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.Field("id", t.ID)
	w.Field("date", t.Date)
	w.Field("amount", t.Amount)
	w.Optional("type", t.Kind)
	w.Optional("category", t.Category)
	w.Optional("account", t.Account)
	w.Optional("description", t.Description)
	w.Optional("isDeductible", t.Deductible)
	return w.MarshalJSON()
}

// Ref is a lightweight reference to a transaction used in reports.
type Ref struct {
	ID          string `json:"id"`
	Date        Date   `json:"date"`
	Amount      Money  `json:"amount"`
	Account     string `json:"account,omitempty"`
	Description string `json:"description,omitempty"`
}

// Ref returns a reference to t.
func (t Transaction) Ref() Ref {
	return Ref{ID: t.ID, Date: t.Date, Amount: t.Amount, Account: t.Account, Description: t.Description}
}
