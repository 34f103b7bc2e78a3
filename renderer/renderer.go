// Package renderer renders the reports of the fiscal engine as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/fiscal"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates is the root of the embedded templates.
var templates, _ = fs.Sub(templatesFS, "templates")

// RenderTaxSummary renders a tax summary.
func RenderTaxSummary(s *fiscal.TaxSummary) string {
	partials := map[string]string{
		"tax_title":  "tax_title.md",
		"tax_income": "tax_income.md",
		"tax_iva":    "tax_iva.md",
		"tax_total":  "tax_total.md",
	}
	return renderTemplate("tax", "tax.md", partials, s)
}

// RenderProvisional renders the provisional payments of a year.
func RenderProvisional(year int, method fiscal.ProvisionalMethod, payments []fiscal.ProvisionalPayment) string {
	return renderTemplate("provisional", "provisional.md", nil, newProvisionalView(year, method, payments))
}

// RenderISR renders the income tax of a taxable base.
func RenderISR(base, isr fiscal.Money) string {
	data := struct {
		TaxableBase   fiscal.Money
		ISR           fiscal.Money
		EffectiveRate fiscal.Percent
	}{base, isr, fiscal.EffectiveRate(isr, base)}
	return renderTemplate("isr", "isr.md", nil, data)
}

// RenderIVA renders the value added tax computed with cfg.
func RenderIVA(cfg *fiscal.FiscalConfig, iva fiscal.IVAResult) string {
	data := struct {
		Rate      string
		Retention string
		IVA       fiscal.IVAResult
	}{Rate: rate(cfg.IVARate), IVA: iva}
	if !cfg.IVARetentionRate.IsZero() {
		data.Retention = rate(cfg.IVARetentionRate)
	}
	partials := map[string]string{"tax_iva": "tax_iva.md"}
	return renderTemplate("iva", "iva.md", partials, data)
}

// RenderFiscalConfig renders a fiscal configuration and the result of its validation.
func RenderFiscalConfig(cfg *fiscal.FiscalConfig, res fiscal.ValidationResult) string {
	return renderTemplate("brackets", "brackets.md", nil, newConfigView(cfg, res))
}

// RenderTransfers renders transfer matches.
func RenderTransfers(matches []fiscal.MatchCandidate) string {
	partials := map[string]string{"transfers_table": "transfers_table.md"}
	return renderTemplate("transfers", "transfers.md", partials, matches)
}

// RenderDuplicates renders duplicate groups.
func RenderDuplicates(groups []fiscal.DuplicateGroup) string {
	partials := map[string]string{"duplicates_groups": "duplicates_groups.md"}
	return renderTemplate("duplicates", "duplicates.md", partials, groups)
}

// RenderForecast renders a cash flow forecast with its history.
func RenderForecast(f *fiscal.Forecast) string {
	partials := map[string]string{
		"forecast_history": "forecast_history.md",
		"forecast_periods": "forecast_periods.md",
	}
	return renderTemplate("forecast", "forecast.md", partials, f)
}

// RenderHealth renders a health score and its recommendations.
func RenderHealth(h *fiscal.HealthScore) string {
	partials := map[string]string{
		"health_dimensions":      "health_dimensions.md",
		"health_recommendations": "health_recommendations.md",
	}
	return renderTemplate("health", "health.md", partials, h)
}

// RenderAnomalies renders anomaly records.
func RenderAnomalies(records []fiscal.AnomalyRecord) string {
	partials := map[string]string{"anomalies_table": "anomalies_table.md"}
	return renderTemplate("anomalies", "anomalies.md", partials, records)
}

// RenderAnalysis renders every report of an analysis in one document.
func RenderAnalysis(a *fiscal.Analysis) string {
	partials := map[string]string{
		"tax_income":             "tax_income.md",
		"tax_iva":                "tax_iva.md",
		"tax_total":              "tax_total.md",
		"transfers_table":        "transfers_table.md",
		"duplicates_groups":      "duplicates_groups.md",
		"anomalies_table":        "anomalies_table.md",
		"forecast_periods":       "forecast_periods.md",
		"health_recommendations": "health_recommendations.md",
	}
	return renderTemplate("analysis", "analysis.md", partials, a)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
