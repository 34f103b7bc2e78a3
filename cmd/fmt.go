package cmd

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/fiscal"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `fsc fmt [-o <file>]

  Validates and formats the ledger file. This command reads all transactions,
  gives an id to those without one, normalizes the sign of the amounts,
  sorts them by date, and writes them back in a canonical JSONL format.
  By default, the ledger is formatted in-place. Use -o - for stdout.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Output file, the ledger itself by default, - for stdout.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	txs, err := DecodeTransactions()
	if err != nil {
		return e.Fail(err)
	}
	// undated transactions go first, the order of a day is kept.
	slices.SortStableFunc(txs, func(a, b fiscal.Transaction) int {
		return cmp.Compare(a.Date.String(), b.Date.String())
	})
	e.AddData("transactions", len(txs))

	switch c.outputFile {
	case "-":
		if err := fiscal.EncodeTransactions(stdout, txs); err != nil {
			return e.Fail(err)
		}
	case "":
		if err := EncodeTransactions(TransactionsPath(), txs); err != nil {
			return e.Fail(err)
		}
		fmt.Fprintf(os.Stderr, "Formatted %d transactions in %s\n", len(txs), TransactionsPath())
	default:
		if err := EncodeTransactions(c.outputFile, txs); err != nil {
			return e.Fail(err)
		}
	}
	return e.Complete()
}
