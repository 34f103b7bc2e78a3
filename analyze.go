package fiscal

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AnalysisInput is the input of Analyze.
type AnalysisInput struct {
	Transactions []Transaction
	Config       *FiscalConfig // DefaultFiscalConfig when nil
	Range        Range         // the period of the tax summary and of the health score
	Periods      int           // months to forecast
	Balances     Balances

	Match      MatchOptions
	Duplicates DuplicateOptions
	Anomalies  AnomalyOptions
	Metrics    *Metrics // used by every computation without its own
}

// Analysis gathers every report of the engine for one ledger.
type Analysis struct {
	Range      Range            `json:"range"`
	Summary    TaxSummary       `json:"summary"`
	Transfers  []MatchCandidate `json:"transfers"`
	Duplicates []DuplicateGroup `json:"duplicates"`
	Forecast   Forecast         `json:"forecast"`
	Health     HealthScore      `json:"health"`
	Anomalies  []AnomalyRecord  `json:"anomalies"`
}

// Analyze runs every computation of the engine concurrently and waits for
// all of them. They only read the input, so that the result is the same as
// running them one after the other.
//
// It fails if the context is canceled before the computations start or if
// the tax summary cannot be computed.
func Analyze(ctx context.Context, in AnalysisInput) (*Analysis, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = DefaultFiscalConfig()
	}
	if res := cfg.Validate(); !res.IsValid {
		return nil, res.Err()
	}
	if in.Match.Metrics == nil {
		in.Match.Metrics = in.Metrics
	}
	if in.Duplicates.Metrics == nil {
		in.Duplicates.Metrics = in.Metrics
	}
	if in.Anomalies.Metrics == nil {
		in.Anomalies.Metrics = in.Metrics
	}

	a := &Analysis{Range: in.Range}
	txs := in.Transactions
	g, ctx := errgroup.WithContext(ctx)
	// run starts f unless the group is already canceled.
	run := func(f func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f()
		})
	}

	run(func() error {
		stop := in.Metrics.Track("summary", len(txs))
		defer stop(1)
		s, err := Summarize(txs, cfg, in.Range)
		if err != nil {
			return fmt.Errorf("tax summary: %w", err)
		}
		a.Summary = s
		return nil
	})
	run(func() error {
		a.Transfers = MatchTransfers(txs, in.Match)
		return nil
	})
	run(func() error {
		a.Duplicates = DetectDuplicates(txs, in.Duplicates)
		return nil
	})
	run(func() error {
		a.Forecast = ForecastCashFlow(txs, in.Periods, ForecastOptions{Metrics: in.Metrics})
		return nil
	})
	run(func() error {
		stop := in.Metrics.Track("health", len(txs))
		defer stop(1)
		data := FinancialDataFromTransactions(txs, in.Range, in.Range.Previous(), in.Balances)
		a.Health = ScoreHealth(data)
		return nil
	})
	run(func() error {
		a.Anomalies = DetectAnomalies(txs, in.Anomalies)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if a.Transfers == nil {
		a.Transfers = []MatchCandidate{}
	}
	if a.Duplicates == nil {
		a.Duplicates = []DuplicateGroup{}
	}
	return a, nil
}
