package fiscal

import (
	"math"
	"testing"

	"github.com/etnz/fiscal/date"
)

// MXN is a helper for test to create pesos from const.
func MXN(v float64) Money { return M(v, "MXN") }

// tx is a helper for test to create a signed transaction from a date string.
// An empty date string creates an undated transaction.
func tx(id, on string, amount float64, account, description string) Transaction {
	var d Date
	if on != "" {
		d = date.MustParse(on)
	}
	return NewTransaction(id, d, MXN(amount), "", "", account, description, false)
}

// assertMoney fails the test if got is not want at the cent.
func assertMoney(t *testing.T, name string, got Money, want float64) {
	t.Helper()
	if math.Abs(got.Float()-want) > 0.005 {
		t.Errorf("%s = %v, want %.2f", name, got.Decimal(), want)
	}
}

// inUSD returns t with its amount in dollars.
func inUSD(t Transaction) Transaction {
	t.Amount = M(t.Amount.Decimal(), "USD")
	return t
}

// mixedLedger is a peso ledger with a dollar income in January.
func mixedLedger() []Transaction {
	rent := tx("e1", "2024-02-05", -5000, "checking", "Renta")
	rent.Deductible = true
	return []Transaction{
		tx("i1", "2024-01-10", 30000, "checking", "Factura 1"),
		inUSD(tx("u1", "2024-01-20", 500, "paypal", "Invoice 7")),
		rent,
		tx("i2", "2024-02-10", 32000, "checking", "Factura 2"),
	}
}
