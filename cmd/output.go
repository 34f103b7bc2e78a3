package cmd

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
)

// printMarkdown renders markdown for the terminal, or prints it raw when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}

// outputFlags select the output format of a report.
type outputFlags struct {
	json  bool
	query string
}

func (o *outputFlags) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.json, "json", false, "Print the report as JSON instead of markdown.")
	f.StringVar(&o.query, "q", "", "Print the result of a JSONPath query on the JSON report, e.g. '$.isr'.")
}

// print prints the report as JSON, as the result of the query, or as markdown.
func (o *outputFlags) print(report any, markdown func() string) error {
	if !o.json && o.query == "" {
		printMarkdown(markdown())
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cannot encode report: %w", err)
	}
	var v any = json.RawMessage(data)
	if o.query != "" {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("cannot decode report: %w", err)
		}
		if v, err = jsonpath.Get(o.query, doc); err != nil {
			return fmt.Errorf("invalid query %q: %w", o.query, err)
		}
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode result: %w", err)
	}
	fmt.Fprintln(stdout, string(out))
	return nil
}
