package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fiscal"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// appendTransaction appends a transaction to the ledger file.
func appendTransaction(filename string, tx fiscal.Transaction) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open ledger file %q: %w", filename, err)
	}
	if err := fiscal.EncodeTransactions(f, []fiscal.Transaction{tx}); err != nil {
		f.Close()
		return fmt.Errorf("could not write to ledger file %q: %w", filename, err)
	}
	return f.Close()
}

type addCmd struct {
	id          string
	date        string
	amount      string
	kind        string
	category    string
	account     string
	description string
	deductible  bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append a transaction to the ledger" }
func (*addCmd) Usage() string {
	return `fsc add -a <amount> [-type income|expense|transfer] [-d <date>] [-c <category>] [-account <account>] [-m <description>] [-deductible]

  Appends a transaction to the ledger. An expense given with a positive
  amount is recorded as negative. See 'fsc topic transactions'.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id, a random one by default.")
	f.StringVar(&c.date, "d", fiscal.Today().String(), "Transaction date (YYYY-MM-DD).")
	f.StringVar(&c.amount, "a", "", "Amount, positive for money coming in.")
	f.StringVar(&c.kind, "type", "", "Transaction type (income, expense, transfer).")
	f.StringVar(&c.category, "c", "", "Category.")
	f.StringVar(&c.account, "account", "", "Account.")
	f.StringVar(&c.description, "m", "", "Description.")
	f.BoolVar(&c.deductible, "deductible", false, "The expense is deductible.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	on, err := fiscal.ParseDate(c.date)
	if err != nil {
		return e.UsageError(fmt.Errorf("invalid date %q: %w", c.date, err))
	}
	amount, err := parseAmount(c.amount, Currency())
	if err != nil || amount == nil {
		return e.UsageError(fmt.Errorf("-a must be an amount, got %q", c.amount))
	}
	kind, err := fiscal.ParseKind(c.kind)
	if err != nil {
		return e.UsageError(err)
	}
	id := c.id
	if id == "" {
		id = uuid.NewString()
	}

	tx := fiscal.NewTransaction(id, on, *amount, kind, c.category, c.account, c.description, c.deductible)
	if err := appendTransaction(TransactionsPath(), tx); err != nil {
		return e.Fail(err)
	}
	fmt.Fprintf(os.Stderr, "Successfully appended transaction %s to %s\n", tx.ID, TransactionsPath())
	return e.Complete()
}
