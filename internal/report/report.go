// Package report turns a dilution result into documents: a Markdown
// summary, the HTML email body rendered from it, and a PDF for download.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mmynk/dilutionwise/internal/calculator"
	"github.com/mmynk/dilutionwise/internal/chart"
	"github.com/mmynk/dilutionwise/internal/format"
)

const Title = "Equity Dilution Report"

// Report is a dilution result prepared for rendering.
type Report struct {
	Result      calculator.DilutionResult
	Chart       chart.Data
	GeneratedAt time.Time

	fmt format.Formatter
}

// New prepares a report for result.
func New(result calculator.DilutionResult, f format.Formatter, generatedAt time.Time) *Report {
	return &Report{
		Result:      result,
		Chart:       chart.FromResult(result),
		GeneratedAt: generatedAt,
		fmt:         f,
	}
}

// Filename is the suggested download name for the PDF.
func (r *Report) Filename() string {
	return fmt.Sprintf("equity-dilution-%s.pdf", r.GeneratedAt.UTC().Format("20060102-150405"))
}

// Summary is the one-line description used in emails and logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("Your stake moves from %s to %s after a %s investment (post-money %s).",
		r.fmt.Percentage(r.Result.EquityPercentage),
		r.fmt.Percentage(r.Result.NewEquityPercentage),
		r.fmt.Currency(r.Result.NewInvestmentAmount),
		r.fmt.Currency(r.Result.PostMoneyValuation),
	)
}

type row struct {
	Label string
	Value string
}

type view struct {
	Title       string
	GeneratedAt string
	Inputs      []row
	Before      []row
	After       []row
	Summary     string
	Dilution    string
}

func (r *Report) view(money func(float64) string) view {
	res := r.Result
	return view{
		Title:       Title,
		GeneratedAt: r.GeneratedAt.UTC().Format("2 Jan 2006 15:04 MST"),
		Inputs: []row{
			{"Total company shares", r.fmt.Number(res.InitialShares)},
			{"Your shares", r.fmt.Number(res.YourShares)},
			{"Pre-money valuation", money(res.CompanyValuation)},
			{"New investment", money(res.NewInvestmentAmount)},
		},
		Before: []row{
			{"Your equity", r.fmt.Percentage(res.EquityPercentage)},
			{"Equity value", money(res.EquityValueBeforeDilution)},
			{"Company valuation", money(res.CompanyValuation)},
			{"Shares outstanding", r.fmt.Number(res.InitialShares)},
		},
		After: []row{
			{"Your equity", r.fmt.Percentage(res.NewEquityPercentage)},
			{"Equity value", money(res.EquityValueAfterDilution)},
			{"Post-money valuation", money(res.PostMoneyValuation)},
			{"Shares outstanding", r.fmt.Number(res.TotalSharesAfterDilution)},
		},
		Summary:  r.Summary(),
		Dilution: fmt.Sprintf("%.2f percentage points (%s new shares at %s per share)", res.DilutionPoints(), r.fmt.Number(res.NewSharesIssued), money(res.PricePerShare)),
	}
}

var markdownTmpl = template.Must(template.New("report").Parse(`# {{.Title}}

_Generated {{.GeneratedAt}}_

{{.Summary}}

## Inputs

| | |
|---|---:|
{{range .Inputs}}| {{.Label}} | {{.Value}} |
{{end}}
## Before investment

| | |
|---|---:|
{{range .Before}}| {{.Label}} | {{.Value}} |
{{end}}
## After investment

| | |
|---|---:|
{{range .After}}| {{.Label}} | {{.Value}} |
{{end}}
**Dilution:** {{.Dilution}}
`))

// Markdown renders the report as GitHub-flavoured Markdown.
func (r *Report) Markdown() (string, error) {
	var buf bytes.Buffer
	if err := markdownTmpl.Execute(&buf, r.view(r.fmt.Currency)); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the Markdown report to an HTML fragment.
func (r *Report) HTML() (string, error) {
	src, err := r.Markdown()
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}
