package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/renderer"
	"github.com/google/subcommands"
)

// --- Forecast Command ---

type forecastCmd struct {
	months  int
	balance string
	outputFlags
}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "project the monthly cash flow" }
func (*forecastCmd) Usage() string {
	return `fsc forecast [-months <n>] [-balance <amount>] [-json | -q <query>]

  Fits a linear trend on the monthly income and expenses of the ledger and
  projects the coming months. See 'fsc topic forecast'.
`
}

func (c *forecastCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "months", 6, "Number of months to project.")
	f.StringVar(&c.balance, "balance", "", "Starting balance of the projection, the net of the ledger by default.")
	c.outputFlags.SetFlags(f)
}

func (c *forecastCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	if c.months < 0 {
		return e.UsageError(fmt.Errorf("-months must not be negative, got %d", c.months))
	}
	// in the currency of the ledger.
	balance, err := parseAmount(c.balance, "")
	if err != nil {
		return e.UsageError(fmt.Errorf("-balance must be an amount, got %q", c.balance))
	}
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	fc := fiscal.ForecastCashFlow(txs, c.months, fiscal.ForecastOptions{StartingBalance: balance, Metrics: e.metrics})
	if err := c.print(fc, func() string { return renderer.RenderForecast(&fc) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- Health Command ---

type healthCmd struct {
	rangeFlags
	balancesFlags
	outputFlags
}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "score the financial health of the business" }
func (*healthCmd) Usage() string {
	return `fsc health [-period <period>] [-d <date>] [-cash <amount>] [-current-assets <amount>] ... [-json | -q <query>]

  Scores liquidity, profitability, solvency, efficiency and growth out of
  100, and recommends actions. Revenue and net income come from the ledger,
  growth compares them with the previous period. Balance sheet figures are
  given by flags. See 'fsc topic health'.
`
}

func (c *healthCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f, "year")
	c.balancesFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
}

func (c *healthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	r, err := c.Range()
	if err != nil {
		return e.UsageError(err)
	}
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	stop := e.metrics.Track("health", len(txs))
	h := fiscal.ScoreHealth(fiscal.FinancialDataFromTransactions(txs, r, r.Previous(), c.Balances(Currency())))
	stop(1)
	e.AddData("score", h.Score)
	if err := c.print(h, func() string { return renderer.RenderHealth(&h) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- Analyze Command ---

type analyzeCmd struct {
	rangeFlags
	balancesFlags
	months int
	outputFlags
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "run every report at once" }
func (*analyzeCmd) Usage() string {
	return `fsc analyze [-period <period>] [-d <date>] [-months <n>] [balances flags] [-json | -q <query>]

  Computes the tax summary, transfers, duplicates, anomalies, forecast and
  health score of the ledger concurrently, and prints them in one report.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f, "year")
	c.balancesFlags.SetFlags(f)
	f.IntVar(&c.months, "months", 6, "Number of months to forecast.")
	c.outputFlags.SetFlags(f)
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	r, err := c.Range()
	if err != nil {
		return e.UsageError(err)
	}
	cfg, err := DecodeFiscalConfig()
	if err != nil {
		return e.Fail(err)
	}
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	e.AddData("transactions", len(txs))

	a, err := fiscal.Analyze(ctx, fiscal.AnalysisInput{
		Transactions: txs,
		Config:       cfg,
		Range:        r,
		Periods:      c.months,
		Balances:     c.Balances(cfg.Currency),
		Match:        fiscal.DefaultMatchOptions(),
		Duplicates:   fiscal.DefaultDuplicateOptions(),
		Metrics:      e.metrics,
	})
	if err != nil {
		return e.Fail(err)
	}
	if err := c.print(a, func() string { return renderer.RenderAnalysis(a) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}
