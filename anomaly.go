package fiscal

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// AnomalyKind is the reason a transaction is flagged.
type AnomalyKind string

// Kinds of anomalies.
const (
	UnusuallyHigh      AnomalyKind = "unusually_high"
	UnusuallyLow       AnomalyKind = "unusually_low"
	PotentialDuplicate AnomalyKind = "potential_duplicate"
)

// Severity of an anomaly.
type Severity string

// Severities of anomalies.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AmountRange is the range of amounts expected in a category, in absolute value.
type AmountRange struct {
	Low  Money `json:"low"`
	High Money `json:"high"`
}

// AnomalyRecord is a transaction flagged as unusual.
type AnomalyRecord struct {
	Transaction   Ref          `json:"transaction"`
	Category      string       `json:"category,omitempty"`
	Kind          AnomalyKind  `json:"kind"`
	Severity      Severity     `json:"severity"`
	ExpectedRange *AmountRange `json:"expectedRange,omitempty"`
	DuplicateOf   string       `json:"duplicateOf,omitempty"` // ID of the earlier transaction
	Reason        string       `json:"reason"`
}

// AnomalyOptions tunes DetectAnomalies.
type AnomalyOptions struct {
	MinCategorySize int // categories with fewer transactions are not analyzed, 5 when 0
	Metrics         *Metrics
}

const defaultMinCategorySize = 5

// DetectAnomalies flags statistical outliers per category, then transactions
// exactly repeating an earlier one. Both checks are independent, a
// transaction can be reported by both.
func DetectAnomalies(txs []Transaction, opts AnomalyOptions) []AnomalyRecord {
	stop := opts.Metrics.Track("anomalies", len(txs))
	records := DetectOutliers(txs, opts.MinCategorySize)
	records = append(records, DetectExactDuplicates(txs)...)
	stop(len(records))
	return records
}

// DetectOutliers flags transactions whose absolute amount is outside the
// interquartile fences of their category.
//
// Categories with less than minSize transactions are skipped (5 when
// minSize is not positive). Quartiles are read at indices n/4 and 3n/4 of the
// sorted absolute amounts, without interpolation, and the fences are
// Q1 - 1.5 IQR and Q3 + 1.5 IQR. Amounts above the upper fence are high, of
// high severity beyond twice the fence. Positive amounts below the lower
// fence are low. Transfers are not analyzed. A category holding several
// currencies is analyzed once per currency.
//
// Records are grouped by category in order of first appearance, and in input
// order within a category.
func DetectOutliers(txs []Transaction, minSize int) []AnomalyRecord {
	if minSize <= 0 {
		minSize = defaultMinCategorySize
	}
	type key struct{ category, currency string }
	var keys []key
	members := make(map[key][]Transaction)
	for _, tx := range txs {
		if tx.IsTransfer() {
			continue
		}
		k := key{tx.Category, tx.Amount.Currency()}
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
		}
		members[k] = append(members[k], tx)
	}

	records := []AnomalyRecord{}
	for _, k := range keys {
		group := members[k]
		if len(group) < minSize {
			continue
		}
		fences := iqrFences(group)
		for _, tx := range group {
			v := tx.Amount.Abs()
			switch {
			case v.GreaterThan(fences.High):
				severity := SeverityMedium
				if v.GreaterThan(fences.High.Mul(decimal.NewFromInt(2))) {
					severity = SeverityHigh
				}
				records = append(records, outlier(tx, UnusuallyHigh, severity, fences))
			case v.IsPositive() && v.LessThan(fences.Low):
				records = append(records, outlier(tx, UnusuallyLow, SeverityLow, fences))
			}
		}
	}
	return records
}

func outlier(tx Transaction, kind AnomalyKind, severity Severity, fences AmountRange) AnomalyRecord {
	return AnomalyRecord{
		Transaction:   tx.Ref(),
		Category:      tx.Category,
		Kind:          kind,
		Severity:      severity,
		ExpectedRange: &fences,
		Reason:        fmt.Sprintf("amount %s is outside the expected range %s to %s", tx.Amount.Abs(), fences.Low, fences.High),
	}
}

// iqrFences computes the outlier fences of the absolute amounts of txs.
func iqrFences(txs []Transaction) AmountRange {
	values := make([]Money, len(txs))
	for i, tx := range txs {
		values[i] = tx.Amount.Abs()
	}
	slices.SortFunc(values, func(a, b Money) int { return a.Decimal().Cmp(b.Decimal()) })

	n := len(values)
	q1, q3 := values[n/4], values[3*n/4]
	spread := q3.Sub(q1).Mul(decimal.RequireFromString("1.5"))
	return AmountRange{
		Low:  q1.Sub(spread).Round(),
		High: q3.Add(spread).Round(),
	}
}

// DetectExactDuplicates flags every transaction with the same date, amount,
// currency and description as an earlier one in input order. Undated
// transactions and transfers are skipped.
//
// It is stricter and simpler than DetectDuplicates, and does not look at
// accounts or similar descriptions.
func DetectExactDuplicates(txs []Transaction) []AnomalyRecord {
	type key struct {
		on          Date
		amount      string
		currency    string
		description string
	}
	first := make(map[key]Transaction)
	records := []AnomalyRecord{}
	for _, tx := range txs {
		if !tx.Dated() || tx.IsTransfer() {
			continue
		}
		k := key{tx.Date, tx.Amount.Decimal().String(), tx.Amount.Currency(), tx.Description}
		earlier, ok := first[k]
		if !ok {
			first[k] = tx
			continue
		}
		records = append(records, AnomalyRecord{
			Transaction: tx.Ref(),
			Category:    tx.Category,
			Kind:        PotentialDuplicate,
			Severity:    SeverityMedium,
			DuplicateOf: earlier.ID,
			Reason:      fmt.Sprintf("same date, amount and description as transaction %s", earlier.ID),
		})
	}
	return records
}
