package cmd

import (
	"context"
	"flag"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/renderer"
	"github.com/google/subcommands"
)

// --- Transfers Command ---

type transfersCmd struct {
	opts fiscal.MatchOptions
	outputFlags
}

func (*transfersCmd) Name() string     { return "transfers" }
func (*transfersCmd) Synopsis() string { return "find transfers between accounts" }
func (*transfersCmd) Usage() string {
	return `fsc transfers [-days <n>] [-amount-tolerance <fraction>] [-min-confidence <score>] [-json | -q <query>]

  Pairs each outflow of an account with the inflow it funded in another
  account. See 'fsc topic matching'.
`
}

func (c *transfersCmd) SetFlags(f *flag.FlagSet) {
	def := fiscal.DefaultMatchOptions()
	f.IntVar(&c.opts.DayTolerance, "days", def.DayTolerance, "Maximum number of days between both legs.")
	f.Float64Var(&c.opts.AmountTolerance, "amount-tolerance", def.AmountTolerance, "Maximum difference of amounts, as a fraction of the outflow.")
	f.Float64Var(&c.opts.MinConfidence, "min-confidence", def.MinConfidence, "Minimum confidence score (0 to 100) of a reported match.")
	c.outputFlags.SetFlags(f)
}

func (c *transfersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	opts := c.opts
	opts.Metrics = e.metrics
	matches := fiscal.MatchTransfers(txs, opts)
	if err := c.print(matches, func() string { return renderer.RenderTransfers(matches) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- Duplicates Command ---

type duplicatesCmd struct {
	opts fiscal.DuplicateOptions
	outputFlags
}

func (*duplicatesCmd) Name() string     { return "duplicates" }
func (*duplicatesCmd) Synopsis() string { return "find transactions imported twice" }
func (*duplicatesCmd) Usage() string {
	return `fsc duplicates [-hours <n>] [-similarity <fraction>] [-min-confidence <score>] [-json | -q <query>]

  Groups transactions of the same amount, close in time, with similar
  descriptions. See 'fsc topic matching'.
`
}

func (c *duplicatesCmd) SetFlags(f *flag.FlagSet) {
	def := fiscal.DefaultDuplicateOptions()
	f.IntVar(&c.opts.HourTolerance, "hours", def.HourTolerance, "Maximum number of hours between duplicates.")
	f.Float64Var(&c.opts.MinSimilarity, "similarity", def.MinSimilarity, "Minimum similarity (0 to 1) of the descriptions.")
	f.Float64Var(&c.opts.MinConfidence, "min-confidence", def.MinConfidence, "Minimum confidence score (0 to 100) of a reported candidate.")
	c.outputFlags.SetFlags(f)
}

func (c *duplicatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	opts := c.opts
	opts.Metrics = e.metrics
	groups := fiscal.DetectDuplicates(txs, opts)
	if err := c.print(groups, func() string { return renderer.RenderDuplicates(groups) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- Anomalies Command ---

type anomaliesCmd struct {
	minCategory int
	outputFlags
}

func (*anomaliesCmd) Name() string     { return "anomalies" }
func (*anomaliesCmd) Synopsis() string { return "find unusual transactions" }
func (*anomaliesCmd) Usage() string {
	return `fsc anomalies [-min-category <n>] [-json | -q <query>]

  Flags the amounts outside the usual range of their category, and the
  exact duplicates. See 'fsc topic anomalies'.
`
}

func (c *anomaliesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.minCategory, "min-category", 5, "Minimum number of transactions for a category to be analyzed.")
	c.outputFlags.SetFlags(f)
}

func (c *anomaliesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	records := fiscal.DetectAnomalies(txs, fiscal.AnomalyOptions{MinCategorySize: c.minCategory, Metrics: e.metrics})
	if err := c.print(records, func() string { return renderer.RenderAnomalies(records) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}
