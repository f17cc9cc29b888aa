package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/blocks/pkg/models/domain"
)

type TableConfig struct {
	NameWidth   int
	ValueWidth  int
	DetailWidth int
	RefWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   44,
		ValueWidth:  14,
		DetailWidth: 32,
		RefWidth:    44,
	}
}

// Reporter renders generated content as text tables
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) HandleContent(content domain.Content) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}, detail string, ref string) string {
			return fmt.Sprintf("| %-*s | %*v | %-*s | %-*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.ValueWidth, value,
				c.config.DetailWidth, truncate(detail, c.config.DetailWidth),
				c.config.RefWidth, ref)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.DetailWidth+2),
				strings.Repeat("-", c.config.RefWidth+2))
		},
		"money": func(minor int64) string {
			return fmt.Sprintf("%.2f", float64(minor)/100)
		},
		"series": func(points []domain.DataPoint) string {
			vals := make([]string, 0, len(points))
			for _, p := range points {
				vals = append(vals, fmt.Sprintf("%.0f", p.Value))
			}
			return strings.Join(vals, " ")
		},
	}

	tmpl := `
Tenant: {{.TenantID}}  Day: {{.Day}}

=== Recommendations ===
{{separator}}
{{formatRow "Title" "Savings/mo" "Impact / Status / Risk" "Reference"}}
{{separator}}
{{range .Recommendations}}{{formatRow .Title (money .EstimatedMonthlySavingsMinor) (printf "%s / %s / %s" .ImpactLevel .Status .RiskLevel) .Ref.String}}
{{end}}{{separator}}

=== Timelines ===
{{range .Timelines}}- {{.Title}} ({{.MetricType}}, {{.TimeRange}}){{if .DisclaimerFlag}} [illustrative]{{end}}
  {{series .DataPoints}}
{{end}}
=== Aggregates ===
{{separator}}
{{formatRow "Label" "Amount" "Metric" "Reference"}}
{{separator}}
{{range .Aggregates}}{{formatRow .Label (money .AmountMinor) .Metric .Ref.String}}
{{end}}{{separator}}
`

	t, err := template.New("content").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, content)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
