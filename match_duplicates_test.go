package fiscal

import "testing"

func TestDetectDuplicates_Identical(t *testing.T) {
	txs := []Transaction{
		tx("1", "2024-05-02", -349, "card", "Netflix"),
		tx("2", "2024-05-02", -349, "card", "Netflix"),
	}
	groups := DetectDuplicates(txs, DefaultDuplicateOptions())
	if len(groups) != 1 || len(groups[0].Candidates) != 1 {
		t.Fatalf("DetectDuplicates() = %+v, want one group with one candidate", groups)
	}
	c := groups[0].Candidates[0]
	if groups[0].Original.ID != "1" || c.Transaction.ID != "2" {
		t.Errorf("group = %s <- %s, want 1 <- 2", groups[0].Original.ID, c.Transaction.ID)
	}
	if c.Confidence != 100 {
		t.Errorf("Confidence = %v, want 100", c.Confidence)
	}
	if c.Similarity != 1 || c.TimeDelta != 0 {
		t.Errorf("candidate = %+v, want similarity 1 and no time delta", c)
	}
}

func TestDetectDuplicates_Confidence(t *testing.T) {
	testCases := []struct {
		name string
		a, b Transaction
		want float64 // negative for no duplicate
	}{
		{
			name: "other account, next day",
			a:    tx("a", "2024-05-02", -349, "card", "Netflix"),
			b:    tx("b", "2024-05-03", -349, "checking", "Netflix"),
			want: 90,
		},
		{
			name: "other account, similar description",
			a:    tx("a", "2024-05-02", -1200, "card", "Pago renta"),
			b:    tx("b", "2024-05-02", -1200, "checking", "Pago renta."),
			want: 50 + 40*(1-1.0/11) + 10,
		},
		{
			name: "income",
			a:    tx("a", "2024-05-02", 1200, "checking", "Factura"),
			b:    tx("b", "2024-05-03", 1200, "checking", "Factura"),
			want: 50 + 40 + 20,
		},
		{
			name: "different amounts",
			a:    tx("a", "2024-05-02", -349, "card", "Netflix"),
			b:    tx("b", "2024-05-02", -350, "card", "Netflix"),
			want: -1,
		},
		{
			name: "opposite directions",
			a:    tx("a", "2024-05-02", -349, "card", "Netflix"),
			b:    tx("b", "2024-05-02", 349, "card", "Netflix"),
			want: -1,
		},
		{
			name: "too far apart",
			a:    tx("a", "2024-05-02", -349, "card", "Netflix"),
			b:    tx("b", "2024-05-04", -349, "card", "Netflix"),
			want: -1,
		},
		{
			name: "different descriptions",
			a:    tx("a", "2024-05-02", -349, "card", "Netflix"),
			b:    tx("b", "2024-05-02", -349, "card", "Spotify"),
			want: -1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			groups := DetectDuplicates([]Transaction{tc.a, tc.b}, DefaultDuplicateOptions())
			if tc.want < 0 {
				if len(groups) != 0 {
					t.Errorf("DetectDuplicates() = %+v, want none", groups)
				}
				return
			}
			if len(groups) != 1 || len(groups[0].Candidates) != 1 {
				t.Fatalf("DetectDuplicates() = %+v, want one candidate", groups)
			}
			got := groups[0].Candidates[0].Confidence
			if !Percent(got).Equal(Percent(clampScore(tc.want))) {
				t.Errorf("Confidence = %v, want %.2f", got, clampScore(tc.want))
			}
		})
	}
}

func TestDetectDuplicates_Groups(t *testing.T) {
	txs := []Transaction{
		tx("orig", "2024-05-02", -349, "card", "Netflix"),
		tx("other", "2024-05-03", -349, "checking", "Netflix"),
		tx("same", "2024-05-02", -349, "card", "Netflix"),
		tx("late", "2024-05-03", -349, "card", "Netflix"),
		tx("rent", "2024-05-01", -9000, "checking", "Renta"),
		tx("undated", "", -349, "card", "Netflix"),
	}
	metrics := NewMetrics()
	opts := DefaultDuplicateOptions()
	opts.Metrics = metrics
	groups := DetectDuplicates(txs, opts)
	if len(groups) != 1 {
		t.Fatalf("DetectDuplicates() = %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Original.ID != "orig" {
		t.Errorf("Original = %s, want orig", g.Original.ID)
	}
	var ids []string
	for i, c := range g.Candidates {
		ids = append(ids, c.Transaction.ID)
		if i > 0 && c.Confidence > g.Candidates[i-1].Confidence {
			t.Errorf("candidates are not sorted by confidence: %+v", g.Candidates)
		}
	}
	// same (100), late (50+40+0+20 = 110 -> 100) keep input order on ties, then other (90).
	want := []string{"same", "late", "other"}
	if len(ids) != len(want) {
		t.Fatalf("candidates = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("candidates = %v, want %v", ids, want)
			break
		}
	}
	if got := metrics.Get("duplicates"); got.Calls != 1 || got.Results != 1 {
		t.Errorf("metrics = %+v", got)
	}
}
