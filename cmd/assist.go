package cmd

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fiscal/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// EnvGeminiAPIKey is the API key of the assistant.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	balancesFlags
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `fsc assist [balances flags] [<question>...]

  Starts an interactive session with the AI assistant. It answers questions
  about the ledger with the fsc reports, and about the tax regulation.
  The arguments are asked first. Type 'bye' to exit.

  It requires a Gemini API key in $` + EnvGeminiAPIKey + `.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.balancesFlags.SetFlags(f)
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e := startExecution(c.Name())
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	cfg, err := DecodeFiscalConfig()
	if err != nil {
		return e.Fail(err)
	}
	txs, err := DecodeTransactions()
	if errors.Is(err, fs.ErrNotExist) {
		e.logger.Warnf("no ledger found at %q, the assistant starts with an empty ledger", TransactionsPath())
		txs, err = nil, nil
	}
	if err != nil {
		return e.Fail(err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv(EnvGeminiAPIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return e.Fail(err)
	}

	ws := &agent.Workspace{
		Transactions: txs,
		Config:       cfg,
		Balances:     c.Balances(cfg.Currency),
		Metrics:      e.metrics,
	}
	a := agent.New(os.Stdout, os.Stdin, agent.NewAccountant(ws), agent.NewTaxAdvisor())
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120)); err == nil {
		a.Render = func(md string) string {
			out, err := r.Render(md)
			if err != nil {
				return md
			}
			return out
		}
	}

	if err := a.Run(ctx, client, prompts...); err != nil {
		return e.Fail(err)
	}
	return e.Complete()
}
