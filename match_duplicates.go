package fiscal

import (
	"cmp"
	"slices"
)

// DuplicateCandidate is a transaction suspected to duplicate a group's original.
type DuplicateCandidate struct {
	Transaction Ref     `json:"transaction"`
	Confidence  float64 `json:"confidence"`
	Similarity  float64 `json:"similarity"`
	TimeDelta   int     `json:"timeDeltaHours"`
}

// DuplicateGroup is an original transaction and the transactions suspected
// to be accidental re-entries of it, most likely first.
type DuplicateGroup struct {
	Original   Ref                  `json:"original"`
	Candidates []DuplicateCandidate `json:"candidates"`
}

// DuplicateOptions tunes DetectDuplicates.
type DuplicateOptions struct {
	HourTolerance int     // maximum time between an original and a duplicate
	MinSimilarity float64 // minimum description similarity, in [0,1]
	MinConfidence float64 // candidates below are dropped from the result
	Metrics       *Metrics
}

// DefaultDuplicateOptions returns a 24h tolerance and a 0.7 similarity.
func DefaultDuplicateOptions() DuplicateOptions {
	return DuplicateOptions{HourTolerance: 24, MinSimilarity: 0.7}
}

// DetectDuplicates groups transactions that look like postings of the same
// event: same absolute amount and direction, close in time, and with similar
// descriptions.
//
// The confidence of a candidate is 50, plus up to 40 for the description
// similarity, up to 10 as the time gap shrinks to 0, and 20 more when both
// are in the same account, capped at 100.
//
// Detection is greedy: the earliest transaction in input order becomes the
// original of a group, and once claimed by a group a transaction is neither
// an original nor a candidate elsewhere. Dates are days, so the time gap is a
// multiple of 24h.
func DetectDuplicates(txs []Transaction, opts DuplicateOptions) []DuplicateGroup {
	stop := opts.Metrics.Track("duplicates", len(txs))

	claimed := make([]bool, len(txs))
	var groups []DuplicateGroup
	for i, a := range txs {
		if claimed[i] || !matchable(a) {
			continue
		}
		var found []int
		var candidates []DuplicateCandidate
		for j := i + 1; j < len(txs); j++ {
			b := txs[j]
			if claimed[j] || !matchable(b) {
				continue
			}
			c, ok := duplicatePair(a, b, opts)
			if !ok {
				continue
			}
			found = append(found, j)
			if c.Confidence >= opts.MinConfidence {
				candidates = append(candidates, c)
			}
		}
		if len(found) == 0 {
			continue
		}
		claimed[i] = true
		for _, j := range found {
			claimed[j] = true
		}
		if len(candidates) == 0 {
			continue
		}
		slices.SortStableFunc(candidates, func(x, y DuplicateCandidate) int { return cmp.Compare(y.Confidence, x.Confidence) })
		groups = append(groups, DuplicateGroup{Original: a.Ref(), Candidates: candidates})
	}

	stop(len(groups))
	return groups
}

// duplicatePair checks whether b looks like a duplicate of a.
func duplicatePair(a, b Transaction, opts DuplicateOptions) (DuplicateCandidate, bool) {
	if a.Flow() != b.Flow() || !sameCurrency(a.Amount, b.Amount) || !a.Amount.Abs().Equal(b.Amount.Abs()) {
		return DuplicateCandidate{}, false
	}
	days := a.Date.DaysBetween(b.Date)
	if days < 0 {
		days = -days
	}
	hours := days * 24
	if hours > opts.HourTolerance {
		return DuplicateCandidate{}, false
	}
	similarity := Similarity(a.Description, b.Description)
	if similarity < opts.MinSimilarity {
		return DuplicateCandidate{}, false
	}

	timeBonus := 10.0
	if opts.HourTolerance > 0 {
		timeBonus = 10 * (1 - float64(hours)/float64(opts.HourTolerance))
	}
	confidence := 50 + similarity*40 + timeBonus
	if a.Account == b.Account {
		confidence += 20
	}
	return DuplicateCandidate{
		Transaction: b.Ref(),
		Confidence:  clampScore(confidence),
		Similarity:  round4(similarity),
		TimeDelta:   hours,
	}, true
}

func round4(v float64) float64 { return round2(v*100) / 100 }
