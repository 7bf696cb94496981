package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (text, json, yaml)", s)
	}
}

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        32,
		ValueWidth:       24,
		UnitWidth:        14,
		DescriptionWidth: 70,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
	format Format
}

func NewReporter(writer io.Writer, format Format) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if format == "" {
		format = FormatText
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		format: format,
	}
}

// Render writes the report as a table, or payload as JSON or YAML.
func (c *Reporter) Render(report *domain.Report, payload interface{}) error {
	switch c.format {
	case FormatJSON:
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case FormatYAML:
		enc := yaml.NewEncoder(c.writer)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return c.Handle(report)
	}
}

type summaryEntry struct {
	Key   string
	Value interface{}
}

// Handle renders the report as a text table.
func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}, unit string, desc string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.NameWidth, fit(name, c.config.NameWidth),
				c.config.ValueWidth, fit(fmt.Sprint(value), c.config.ValueWidth),
				c.config.UnitWidth, fit(unit, c.config.UnitWidth),
				c.config.DescriptionWidth, fit(desc, c.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
		"sorted": func(m map[string]interface{}) []summaryEntry {
			out := make([]summaryEntry, 0, len(m))
			for k, v := range m {
				out = append(out, summaryEntry{Key: k, Value: v})
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
			return out
		},
	}

	tmpl := `
{{.Title}}{{if .Periods}} ({{.Periods}}){{end}}
Total: {{if .Currency}}{{.Currency}} {{end}}{{printf "%.2f" .TotalAmount}}
{{range .Sections}}
=== {{.Title}} ===
{{range sorted .Summary}}{{.Key}}: {{.Value}}
{{end}}{{if .Details}}
{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// fit truncates s to width runes, marking the cut with "…".
func fit(s string, width int) string {
	if utf8.RuneCountInString(s) <= width || width < 1 {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
