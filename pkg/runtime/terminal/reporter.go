package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/blocks/pkg/models/domain"
)

const answerTemplate = `{{.Response}}

References:
{{range .References}}  - {{.}}
{{else}}  (none)
{{end}}{{if .Sources}}Sources:
{{range .Sources}}  - {{.}}
{{end}}{{end}}Confidence: {{printf "%.2f" .Confidence}}  Topics: {{join .Meta.Topics ", "}}  Data: {{.Meta.DataSource}}  Day: {{.Meta.Day}}
`

// Reporter outputs assistant answers to the console in a formatted text form
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	tmpl := template.Must(template.New("answer").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(answerTemplate))
	return &Reporter{writer: writer, tmpl: tmpl}
}

func (c *Reporter) HandleAnswer(resp domain.AssistantResponse) error {
	if err := c.tmpl.Execute(c.writer, resp); err != nil {
		return fmt.Errorf("failed to render answer: %w", err)
	}
	return nil
}
