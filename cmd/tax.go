package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/renderer"
	"github.com/google/subcommands"
)

// --- Tax Command ---

type taxCmd struct {
	rangeFlags
	outputFlags
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "compute the tax summary of a period" }
func (*taxCmd) Usage() string {
	return `fsc tax [-period <period>] [-d <date>] [-json | -q <query>]

  Sums the income, expenses and deductible expenses of the period, and
  computes the ISR, the IVA, the total tax and the effective rate.
  Transfers are ignored. See 'fsc topic taxes'.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f, "year")
	c.outputFlags.SetFlags(f)
}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	stop := e.metrics.Track("summary", len(txs))
	s, err := fiscal.Summarize(txs, cfg, r)
	stop(1)
	if err != nil {
		return e.Fail(err)
	}
	if err := c.print(s, func() string { return renderer.RenderTaxSummary(&s) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- Provisional Command ---

type provisionalCmd struct {
	year   int
	period string
	method string
	outputFlags
}

func (*provisionalCmd) Name() string     { return "provisional" }
func (*provisionalCmd) Synopsis() string { return "compute the provisional payments of a fiscal year" }
func (*provisionalCmd) Usage() string {
	return `fsc provisional [-year <year>] [-period month|quarter] [-method cumulative|annualized] [-json | -q <query>]

  Computes the ISR and IVA due for each month or quarter of the year, by
  the cumulative subtraction method.
`
}

func (c *provisionalCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", fiscal.Today().Year(), "Fiscal year.")
	f.StringVar(&c.period, "period", "month", "Payment period (month, quarter).")
	f.StringVar(&c.method, "method", string(fiscal.Cumulative), "How the cumulative base is taxed (cumulative, annualized).")
	c.outputFlags.SetFlags(f)
}

func (c *provisionalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return e.UsageError(err)
	}
	if period.PerYear() == 0 {
		return e.UsageError(fmt.Errorf("-period must be month, quarter or year, got %q", c.period))
	}
	method, err := fiscal.ParseProvisionalMethod(c.method)
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

	stop := e.metrics.Track("provisional", len(txs))
	payments, err := fiscal.ProvisionalSchedule(cfg, txs, c.year, period, method)
	stop(len(payments))
	if err != nil {
		return e.Fail(err)
	}
	err = c.print(payments, func() string { return renderer.RenderProvisional(c.year, method, payments) })
	if err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- ISR Command ---

type isrCmd struct {
	base string
	outputFlags
}

func (*isrCmd) Name() string     { return "isr" }
func (*isrCmd) Synopsis() string { return "compute the income tax of a taxable base" }
func (*isrCmd) Usage() string {
	return `fsc isr -base <amount> [-json | -q <query>]

  Computes the ISR of a taxable base with the brackets of the fiscal
  configuration.
`
}

func (c *isrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "The taxable base.")
	c.outputFlags.SetFlags(f)
}

func (c *isrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	cfg, err := DecodeFiscalConfig()
	if err != nil {
		return e.Fail(err)
	}
	base, err := parseAmount(c.base, cfg.Currency)
	if err != nil || base == nil {
		return e.UsageError(fmt.Errorf("-base must be an amount, got %q", c.base))
	}
	isr, err := cfg.ISR(*base)
	if err != nil {
		return e.Fail(err)
	}
	report := struct {
		TaxableBase   fiscal.Money   `json:"taxableBase"`
		ISR           fiscal.Money   `json:"isr"`
		EffectiveRate fiscal.Percent `json:"effectiveRate"`
	}{*base, isr, fiscal.EffectiveRate(isr, *base)}
	if err := c.print(report, func() string { return renderer.RenderISR(*base, isr) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- IVA Command ---

type ivaCmd struct {
	income   string
	expenses string
	outputFlags
}

func (*ivaCmd) Name() string     { return "iva" }
func (*ivaCmd) Synopsis() string { return "compute the value added tax of an income" }
func (*ivaCmd) Usage() string {
	return `fsc iva -income <amount> [-expenses <amount>] [-json | -q <query>]

  Computes the IVA charged on the income, creditable on the deductible
  expenses, and the resulting payable or credit balance.
`
}

func (c *ivaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.income, "income", "", "The income before IVA.")
	f.StringVar(&c.expenses, "expenses", "", "The deductible expenses before IVA.")
	c.outputFlags.SetFlags(f)
}

func (c *ivaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	cfg, err := DecodeFiscalConfig()
	if err != nil {
		return e.Fail(err)
	}
	income, err := parseAmount(c.income, cfg.Currency)
	if err != nil || income == nil {
		return e.UsageError(fmt.Errorf("-income must be an amount, got %q", c.income))
	}
	expenses, err := parseAmount(c.expenses, cfg.Currency)
	if err != nil {
		return e.UsageError(fmt.Errorf("-expenses must be an amount, got %q", c.expenses))
	}
	if expenses == nil {
		zero := fiscal.M(0, cfg.Currency)
		expenses = &zero
	}
	iva := cfg.IVA(*income, *expenses)
	if err := c.print(iva, func() string { return renderer.RenderIVA(cfg, iva) }); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}

// --- Brackets Command ---

type bracketsCmd struct {
	export string
	outputFlags
}

func (*bracketsCmd) Name() string     { return "brackets" }
func (*bracketsCmd) Synopsis() string { return "validate and display the fiscal configuration" }
func (*bracketsCmd) Usage() string {
	return `fsc brackets [-export yaml|json] [-json | -q <query>]

  Validates the fiscal configuration and displays its brackets and rates.
  It fails when the configuration is invalid.

  With -export, the configuration is written in that format instead, which
  is a convenient way to start a configuration from the built in one:

    $ fsc brackets -export yaml > fiscal.yaml
`
}

func (c *bracketsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.export, "export", "", "Write the configuration as yaml or json.")
	c.outputFlags.SetFlags(f)
}

func (c *bracketsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	cfg, err := DecodeFiscalConfig()
	if err != nil {
		return e.Fail(err)
	}

	switch c.export {
	case "":
	case "yaml":
		if err := fiscal.EncodeFiscalConfigYAML(stdout, cfg); err != nil {
			return e.Fail(err)
		}
		return e.Complete()
	case "json":
		if err := fiscal.EncodeFiscalConfigJSON(stdout, cfg); err != nil {
			return e.Fail(err)
		}
		return e.Complete()
	default:
		return e.UsageError(fmt.Errorf("unknown export format %q, want yaml or json", c.export))
	}

	res := cfg.Validate()
	if err := c.print(res, func() string { return renderer.RenderFiscalConfig(cfg, res) }); err != nil {
		return e.Fail(err)
	}
	if !res.IsValid {
		return e.Fail(res.Err())
	}
	return e.Complete()
}
