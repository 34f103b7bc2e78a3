// Package cmd implements the fsc commands.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/etnz/fiscal"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Environment variables read when the matching flag is not set.
const (
	EnvTransactionsFile = "FSC_TRANSACTIONS_FILE"
	EnvFiscalConfig     = "FSC_FISCAL_CONFIG"
	EnvCurrency         = "FSC_CURRENCY"
	EnvLogLevel         = "FSC_LOG_LEVEL"
	EnvVerbose          = "FSC_VERBOSE"
)

const defaultTransactionsFile = "transactions.jsonl"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var transactionsFile = flag.String("transactions", "", "Path to the ledger of transactions (JSONL format). Defaults to $"+EnvTransactionsFile+" or "+defaultTransactionsFile+".")
var fiscalConfigFile = flag.String("fiscal-config", "", "Path to the fiscal configuration (YAML or JSON). Defaults to $"+EnvFiscalConfig+" or the built in 2024 table.")
var defaultCurrency = flag.String("currency", "", "Currency of amounts without one. Defaults to $"+EnvCurrency+" or "+fiscal.DefaultCurrency+".")
var Verbose = flag.Bool("v", false, "Log the execution of commands on stderr.")

// stdout is where commands print their reports.
var stdout io.Writer = os.Stdout

// Commands returns every fsc command, grouped.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"taxes": {
			&taxCmd{},
			&provisionalCmd{},
			&isrCmd{},
			&ivaCmd{},
			&bracketsCmd{},
		},
		"reconciliation": {
			&transfersCmd{},
			&duplicatesCmd{},
			&anomaliesCmd{},
		},
		"analytics": {
			&forecastCmd{},
			&healthCmd{},
			&analyzeCmd{},
			&assistCmd{},
		},
		"ledger": {
			&addCmd{},
			&fmtCmd{},
		},
		"help": {
			&topicCmd{},
		},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// LoadEnv loads the .env file of the current directory, if any, into the
// environment. Variables already set are not overridden.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setting returns the flag value if set, otherwise the environment variable, otherwise def.
func setting(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// TransactionsPath returns the path to the ledger of transactions.
func TransactionsPath() string {
	return setting(*transactionsFile, EnvTransactionsFile, defaultTransactionsFile)
}

// FiscalConfigPath returns the path to the fiscal configuration, empty for the built in one.
func FiscalConfigPath() string {
	return setting(*fiscalConfigFile, EnvFiscalConfig, "")
}

// Currency returns the default currency.
func Currency() string {
	return setting(*defaultCurrency, EnvCurrency, fiscal.DefaultCurrency)
}

// DecodeTransactions reads the ledger of transactions.
func DecodeTransactions() ([]fiscal.Transaction, error) {
	filename := TransactionsPath()
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", filename, err)
	}
	defer f.Close()

	txs, err := fiscal.DecodeTransactions(f, Currency())
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", filename, err)
	}
	return txs, nil
}

// DecodeFiscalConfig reads the fiscal configuration, or returns the built in one.
// The currency of a configuration without one is the default currency.
func DecodeFiscalConfig() (*fiscal.FiscalConfig, error) {
	cfg := fiscal.DefaultFiscalConfig()
	if filename := FiscalConfigPath(); filename != "" {
		var err error
		if cfg, err = fiscal.LoadFiscalConfig(filename); err != nil {
			return nil, err
		}
	}
	if cfg.Currency == "" {
		cfg.Currency = Currency()
	}
	return cfg, nil
}

// EncodeTransactions rewrites the ledger of transactions.
func EncodeTransactions(filename string, txs []fiscal.Transaction) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create ledger file %q: %w", filename, err)
	}
	if err := fiscal.EncodeTransactions(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger file %q: %w", filename, err)
	}
	return f.Close()
}
