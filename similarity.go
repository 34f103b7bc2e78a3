package fiscal

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns how alike two descriptions are, in [0,1].
//
// It is 1 - d/max(len(a), len(b)) where d is the Levenshtein distance between
// both strings, counted in runes after Unicode normalization and case folding.
// Two empty strings are identical, one empty string is not similar at all.
func Similarity(a, b string) float64 {
	ra, rb := foldRunes(a), foldRunes(b)
	switch {
	case len(ra) == 0 && len(rb) == 0:
		return 1
	case len(ra) == 0 || len(rb) == 0:
		return 0
	}
	longest := max(len(ra), len(rb))
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// foldRunes normalizes s for caseless comparison. Folding is not safe for
// concurrent use, hence a fresh caser each time.
func foldRunes(s string) []rune {
	if s == "" {
		return nil
	}
	return []rune(cases.Fold().String(norm.NFC.String(s)))
}

// levenshtein computes the edit distance between a and b with unit costs for
// insertion, deletion and substitution, keeping a single row.
func levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0] // row[i-1][j-1]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(b)]
}
