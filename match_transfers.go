package fiscal

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// MatchKindTransfer is the kind of a match between two legs of a transfer.
const MatchKindTransfer = "transfer"

// MatchCandidate is a pair of transactions believed to be the two legs of
// one transfer between accounts.
type MatchCandidate struct {
	From       Ref     `json:"from"` // the outflow leg
	To         Ref     `json:"to"`   // the inflow leg
	AmountDiff Money   `json:"amountDiff"`
	DaysDiff   int     `json:"daysDiff"`
	Confidence float64 `json:"confidence"`
	Kind       string  `json:"kind"`
}

// MatchOptions tunes MatchTransfers.
type MatchOptions struct {
	DayTolerance    int     // maximum days between both legs
	AmountTolerance float64 // maximum amount difference, as a fraction of the first leg amount
	MinConfidence   float64 // matches below are dropped from the result
	Metrics         *Metrics
}

// DefaultMatchOptions returns 3 days and 1% tolerances.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{DayTolerance: 3, AmountTolerance: 0.01}
}

// MatchTransfers finds pairs of transactions, in different accounts and in
// opposite directions, with close amounts and dates.
//
// Matching is greedy: transactions are scanned in input order, each one is
// paired with the first later transaction that qualifies, and both are then
// consumed. The result is not a global optimum, it is stable for a given
// input order. Undated transactions and zero amounts are skipped.
//
// Matches are sorted by confidence, highest first.
func MatchTransfers(txs []Transaction, opts MatchOptions) []MatchCandidate {
	stop := opts.Metrics.Track("transfers", len(txs))

	used := make([]bool, len(txs))
	var matches []MatchCandidate
	for i, a := range txs {
		if used[i] || !matchable(a) {
			continue
		}
		for j := i + 1; j < len(txs); j++ {
			b := txs[j]
			if used[j] || !matchable(b) {
				continue
			}
			m, ok := matchPair(a, b, opts)
			if !ok {
				continue
			}
			used[i], used[j] = true, true
			if m.Confidence >= opts.MinConfidence {
				matches = append(matches, m)
			}
			break
		}
	}

	slices.SortStableFunc(matches, func(x, y MatchCandidate) int { return cmp.Compare(y.Confidence, x.Confidence) })
	stop(len(matches))
	return matches
}

func matchable(t Transaction) bool { return t.Dated() && !t.Amount.IsZero() }

// matchPair checks whether a and b qualify as the two legs of a transfer and
// computes the confidence of the match.
func matchPair(a, b Transaction, opts MatchOptions) (MatchCandidate, bool) {
	if a.Account == b.Account || a.Flow() == b.Flow() || !sameCurrency(a.Amount, b.Amount) {
		return MatchCandidate{}, false
	}
	if a.Flow() == NoFlow || b.Flow() == NoFlow {
		return MatchCandidate{}, false
	}

	amountDiff := a.Amount.Abs().Sub(b.Amount.Abs()).Abs()
	budget := a.Amount.Abs().Mul(decimal.NewFromFloat(opts.AmountTolerance))
	if amountDiff.GreaterThan(budget) {
		return MatchCandidate{}, false
	}
	days := a.Date.DaysBetween(b.Date)
	if days < 0 {
		days = -days
	}
	if days > opts.DayTolerance {
		return MatchCandidate{}, false
	}

	confidence := 100.0
	if budget.IsPositive() {
		confidence -= 20 * amountDiff.Ratio(budget)
	}
	if opts.DayTolerance > 0 {
		confidence -= 20 * float64(days) / float64(opts.DayTolerance)
	}
	confidence += 10 * Similarity(a.Description, b.Description)
	if a.IsTransfer() && b.IsTransfer() {
		confidence += 10
	}

	from, to := a, b
	if a.Flow() == Inflow {
		from, to = b, a
	}
	return MatchCandidate{
		From:       from.Ref(),
		To:         to.Ref(),
		AmountDiff: amountDiff.Round(),
		DaysDiff:   days,
		Confidence: clampScore(confidence),
		Kind:       MatchKindTransfer,
	}, true
}

// sameCurrency reports whether a and b can be compared, an empty currency matches any.
func sameCurrency(a, b Money) bool {
	return a.Currency() == "" || b.Currency() == "" || a.Currency() == b.Currency()
}

// clampScore rounds a confidence to 2 decimals within [0, 100].
func clampScore(v float64) float64 { return round2(min(100, max(0, v))) }
