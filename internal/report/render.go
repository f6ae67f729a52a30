package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/report.html
var reportTemplate string

// Renderer turns a Metrics summary into a self-contained HTML document.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(m *Metrics) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
