package agent

import (
	"context"
	"fmt"

	"github.com/etnz/fiscal"
	"github.com/etnz/fiscal/date"
	"github.com/etnz/fiscal/docs"
	"github.com/etnz/fiscal/renderer"
	"google.golang.org/genai"
)

// Workspace is the data the Accountant computes on.
type Workspace struct {
	Transactions []fiscal.Transaction
	Config       *fiscal.FiscalConfig
	Balances     fiscal.Balances
	Metrics      *fiscal.Metrics
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// rangeParameters are the parameters selecting a range of dates.
func rangeParameters() map[string]*genai.Schema {
	return map[string]*genai.Schema{
		"period": {
			Type:        genai.TypeString,
			Description: "The period of the range: day, week, month, quarter or year. Year is the default.",
		},
		"date": {
			Type:        genai.TypeString,
			Description: "A day in the range, today by default.\n\n" + must(docs.GetTopic("dates")),
		},
	}
}

// parseRange reads the range selected by the period and date arguments.
func parseRange(args map[string]any) (fiscal.Range, error) {
	speriod, err := stringArg(args, "period", "year")
	if err != nil {
		return fiscal.Range{}, err
	}
	period, err := date.ParsePeriod(speriod)
	if err != nil {
		return fiscal.Range{}, fmt.Errorf("argument 'period': %w", err)
	}
	sdate, err := stringArg(args, "date", "")
	if err != nil {
		return fiscal.Range{}, err
	}
	on := fiscal.Today()
	if sdate != "" {
		if on, err = fiscal.ParseDate(sdate); err != nil {
			return fiscal.Range{}, fmt.Errorf("argument 'date' must be a valid date got %q. Below is the doc about the format date\n\n%s ", sdate, must(docs.GetTopic("dates")))
		}
	}
	return date.NewRange(on, period), nil
}

func (ws *Workspace) config() *fiscal.FiscalConfig {
	if ws.Config == nil {
		return fiscal.DefaultFiscalConfig()
	}
	return ws.Config
}

// tool declares a function returning markdown.
func tool(name, description string, params map[string]*genai.Schema, f func(args map[string]any) (string, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: params},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := f(args)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, out)
		},
	}
}

// Functions returns the tools of the workspace.
func (ws *Workspace) Functions() []Function {
	return []Function{
		tool("TaxSummary", "TaxSummary computes the income, deductions, ISR, IVA and effective tax rate over a range of dates.",
			rangeParameters(), ws.taxSummary),
		tool("ProvisionalPayments", "ProvisionalPayments computes the monthly or quarterly provisional ISR and IVA payments of a fiscal year.",
			map[string]*genai.Schema{
				"year":   {Type: genai.TypeInteger, Description: "The fiscal year, the current one by default."},
				"period": {Type: genai.TypeString, Description: "month (default) or quarter."},
				"method": {Type: genai.TypeString, Description: "cumulative (default) or annualized."},
			}, ws.provisional),
		tool("FiscalConfiguration", "FiscalConfiguration shows the tax brackets and rates in use and whether they are valid.",
			nil, ws.fiscalConfiguration),
		tool("Transfers", "Transfers lists the pairs of transactions that are likely transfers between two accounts of the user.",
			nil, ws.transfers),
		tool("Duplicates", "Duplicates lists groups of transactions that are likely imported twice.",
			nil, ws.duplicates),
		tool("Forecast", "Forecast projects the monthly cash flow and balance from the trend of the ledger.",
			map[string]*genai.Schema{
				"months": {Type: genai.TypeInteger, Description: "The number of months to project, 6 by default."},
			}, ws.forecast),
		tool("Health", "Health scores the financial health of the business out of 100, with recommendations.",
			rangeParameters(), ws.health),
		tool("Anomalies", "Anomalies lists unusually high or low transactions in their category, and exact duplicates.",
			nil, ws.anomalies),
		tool("Documentation", "Documentation returns a topic of the fsc documentation, 'readme' lists them.",
			map[string]*genai.Schema{
				"topic": {Type: genai.TypeString, Description: "The topic name."},
			}, documentation),
	}
}

func (ws *Workspace) taxSummary(args map[string]any) (string, error) {
	r, err := parseRange(args)
	if err != nil {
		return "", err
	}
	s, err := fiscal.Summarize(ws.Transactions, ws.config(), r)
	if err != nil {
		return "", err
	}
	return renderer.RenderTaxSummary(&s), nil
}

func (ws *Workspace) provisional(args map[string]any) (string, error) {
	year, err := intArg(args, "year", fiscal.Today().Year())
	if err != nil {
		return "", err
	}
	speriod, err := stringArg(args, "period", "month")
	if err != nil {
		return "", err
	}
	period, err := date.ParsePeriod(speriod)
	if err != nil {
		return "", err
	}
	smethod, err := stringArg(args, "method", "")
	if err != nil {
		return "", err
	}
	method, err := fiscal.ParseProvisionalMethod(smethod)
	if err != nil {
		return "", err
	}
	payments, err := fiscal.ProvisionalSchedule(ws.config(), ws.Transactions, year, period, method)
	if err != nil {
		return "", err
	}
	return renderer.RenderProvisional(year, method, payments), nil
}

func (ws *Workspace) fiscalConfiguration(map[string]any) (string, error) {
	cfg := ws.config()
	return renderer.RenderFiscalConfig(cfg, cfg.Validate()), nil
}

func (ws *Workspace) transfers(map[string]any) (string, error) {
	opts := fiscal.DefaultMatchOptions()
	opts.Metrics = ws.Metrics
	return renderer.RenderTransfers(fiscal.MatchTransfers(ws.Transactions, opts)), nil
}

func (ws *Workspace) duplicates(map[string]any) (string, error) {
	opts := fiscal.DefaultDuplicateOptions()
	opts.Metrics = ws.Metrics
	return renderer.RenderDuplicates(fiscal.DetectDuplicates(ws.Transactions, opts)), nil
}

func (ws *Workspace) forecast(args map[string]any) (string, error) {
	months, err := intArg(args, "months", 6)
	if err != nil {
		return "", err
	}
	f := fiscal.ForecastCashFlow(ws.Transactions, months, fiscal.ForecastOptions{Metrics: ws.Metrics})
	return renderer.RenderForecast(&f), nil
}

func (ws *Workspace) health(args map[string]any) (string, error) {
	r, err := parseRange(args)
	if err != nil {
		return "", err
	}
	h := fiscal.ScoreHealth(fiscal.FinancialDataFromTransactions(ws.Transactions, r, r.Previous(), ws.Balances))
	return renderer.RenderHealth(&h), nil
}

func (ws *Workspace) anomalies(map[string]any) (string, error) {
	records := fiscal.DetectAnomalies(ws.Transactions, fiscal.AnomalyOptions{Metrics: ws.Metrics})
	return renderer.RenderAnomalies(records), nil
}

func documentation(args map[string]any) (string, error) {
	topic, err := stringArg(args, "topic", docs.Index)
	if err != nil {
		return "", err
	}
	return docs.GetTopic(topic)
}
