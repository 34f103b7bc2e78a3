package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/fiscal"
	"google.golang.org/genai"
)

func workspace() *Workspace {
	mxn := func(v float64) fiscal.Money { return fiscal.M(v, "MXN") }
	return &Workspace{
		Transactions: []fiscal.Transaction{
			fiscal.NewTransaction("i1", fiscal.NewDate(2024, time.January, 10), mxn(30000), fiscal.KindIncome, "honorarios", "checking", "Factura 1", false),
			fiscal.NewTransaction("e1", fiscal.NewDate(2024, time.January, 15), mxn(-5000), fiscal.KindExpense, "renta", "checking", "Renta", true),
			fiscal.NewTransaction("t1", fiscal.NewDate(2024, time.January, 20), mxn(-1000), fiscal.KindTransfer, "", "checking", "Traspaso", false),
			fiscal.NewTransaction("t2", fiscal.NewDate(2024, time.January, 21), mxn(1000), fiscal.KindTransfer, "", "savings", "Traspaso", false),
		},
		Metrics: fiscal.NewMetrics(),
	}
}

func TestWorkspace_Functions(t *testing.T) {
	lib := NewLibrary(workspace().Functions())
	testCases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"TaxSummary", map[string]any{"period": "year", "date": "2024-06-01"}, "# Tax Summary 2024"},
		{"TaxSummary", map[string]any{"period": "month", "date": "2024-01-31"}, "# Tax Summary 2024-01"},
		{"ProvisionalPayments", map[string]any{"year": float64(2024), "period": "quarter"}, "| 2024-Q1 |"},
		{"FiscalConfiguration", nil, "The configuration is valid."},
		{"Transfers", nil, "checking `t1`"},
		{"Duplicates", nil, "No duplicate found."},
		{"Forecast", map[string]any{"months": float64(2)}, "Not enough history to forecast"},
		{"Health", map[string]any{"date": "2024-01-15"}, "# Financial Health"},
		{"Anomalies", nil, "No anomaly found."},
		{"Documentation", map[string]any{"topic": "dates"}, "# Dates"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: tc.name, Args: tc.args})
			if resp.ID != "1" || resp.Name != tc.name {
				t.Errorf("response = %s %s, want 1 %s", resp.ID, resp.Name, tc.name)
			}
			if e, ok := resp.Response["error"]; ok {
				t.Fatalf("%s returned an error: %v", tc.name, e)
			}
			out, _ := resp.Response["output"].(string)
			if !strings.Contains(out, tc.want) {
				t.Errorf("%s output does not contain %q:\n%s", tc.name, tc.want, out)
			}
		})
	}
}

func TestWorkspace_Errors(t *testing.T) {
	lib := NewLibrary(workspace().Functions())
	testCases := []struct {
		name string
		args map[string]any
	}{
		{"Unknown", nil},
		{"TaxSummary", map[string]any{"date": "not a date"}},
		{"TaxSummary", map[string]any{"period": "decade"}},
		{"TaxSummary", map[string]any{"period": 12.0}},
		{"ProvisionalPayments", map[string]any{"period": "week"}},
		{"ProvisionalPayments", map[string]any{"method": "magic"}},
		{"ProvisionalPayments", map[string]any{"year": "2024"}},
		{"Documentation", map[string]any{"topic": "nope"}},
	}
	for _, tc := range testCases {
		resp := lib(context.Background(), &genai.FunctionCall{Name: tc.name, Args: tc.args})
		if _, ok := resp.Response["error"]; !ok {
			t.Errorf("%s(%v) = %v, want an error", tc.name, tc.args, resp.Response)
		}
	}
}

func TestWorkspace_Metrics(t *testing.T) {
	ws := workspace()
	lib := NewLibrary(ws.Functions())
	lib(context.Background(), &genai.FunctionCall{Name: "Transfers"})
	if got := ws.Metrics.Get("transfers"); got.Calls != 1 || got.Results != 1 {
		t.Errorf("transfers metrics = %+v, want 1 call with 1 result", got)
	}
}

func TestAccountant(t *testing.T) {
	e := NewAccountant(workspace())
	decls := e.Config.Tools[0].FunctionDeclarations
	if len(decls) != len(workspace().Functions()) {
		t.Errorf("Accountant declares %d functions, want %d", len(decls), len(workspace().Functions()))
	}
	f := newFacilitator(e, NewTaxAdvisor())
	names := []string{}
	for _, d := range f.Config.Tools[0].FunctionDeclarations {
		names = append(names, d.Name)
		if d.Parameters.Required[0] != "question" {
			t.Errorf("expert %s does not require a question", d.Name)
		}
	}
	if strings.Join(names, ",") != "Accountant,TaxAdvisor" {
		t.Errorf("facilitator experts = %v", names)
	}
}
