// Package report renders pipeline results as console tables.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
	"github.com/ecotown/biomarker-atlas/pkg/services/pipeline"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
)

type TableConfig struct {
	NameWidth   int
	ValueWidth  int
	UnitWidth   int
	StatusWidth int
	RangeWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   20,
		ValueWidth:  10,
		UnitWidth:   8,
		StatusWidth: 8,
		RangeWidth:  16,
	}
}

type Reporter struct {
	writer  io.Writer
	config  TableConfig
	noColor bool
}

type Options struct {
	Output  io.Writer
	NoColor bool
}

func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Reporter{
		writer:  opts.Output,
		config:  DefaultTableConfig(),
		noColor: opts.NoColor,
	}
}

type row struct {
	Name   string
	Value  string
	Unit   string
	Status domain.Status
	Range  string
}

type uploadView struct {
	Patient domain.PatientInfo
	Method  domain.ExtractionMethod
	Rows    []row
	Merged  string
	Summary domain.SummaryStats
}

type summaryView struct {
	Summary  domain.SummaryStats
	Clinical summary.ClinicalSummary
}

const uploadTemplate = `
Patient: {{.Patient.Name}}{{if .Patient.Age}} ({{.Patient.Age}} y, {{.Patient.Gender}}){{end}}
Report: {{.Patient.ID}}  Date: {{.Patient.ReportDate}}  Method: {{.Method}}

{{separator}}
{{formatRow "Biomarker" "Value" "Unit" "Status" "Reference"}}
{{separator}}
{{range .Rows}}{{statusRow .}}
{{end}}{{separator}}
Merged: {{.Merged}}
{{template "summary" .Summary}}`

const summaryTemplate = `{{define "summary"}}Total: {{.Total}}  Normal: {{.Normal}}  Out of range: {{.OutOfRange}}  Improving: {{.Improving}}
{{end}}`

const clinicalTemplate = `
{{template "summary" .Summary}}
Risk factors: {{join .Clinical.RiskFactors}}
Improvements: {{join .Clinical.Improvements}}
`

const catalogTemplate = `
{{separator}}
{{formatRow "Biomarker" "Low" "Unit" "High" "Category"}}
{{separator}}
{{range .}}{{formatRow .Name (bound .Low) .Unit (printf "%g" .High) .Category}}
{{end}}{{separator}}
`

func (c *Reporter) paint(s string, attr color.Attribute) string {
	if c.noColor {
		return s
	}
	return color.New(attr).Sprint(s)
}

func (c *Reporter) statusColor(s domain.Status) color.Attribute {
	switch s {
	case domain.StatusNormal:
		return color.FgGreen
	case domain.StatusCritical:
		return color.FgHiRed
	case domain.StatusHigh, domain.StatusLow:
		return color.FgRed
	default:
		return color.FgYellow
	}
}

func (c *Reporter) formatRow(name, value, unit, status, rng string) string {
	return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s |",
		c.config.NameWidth, name,
		c.config.ValueWidth, value,
		c.config.UnitWidth, unit,
		c.config.StatusWidth, status,
		c.config.RangeWidth, rng)
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": c.formatRow,
		"statusRow": func(r row) string {
			status := string(r.Status)
			if r.Value == "" {
				status = "missing"
			}
			padded := fmt.Sprintf("%-*s", c.config.StatusWidth, status)
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %s | %-*s |",
				c.config.NameWidth, r.Name,
				c.config.ValueWidth, r.Value,
				c.config.UnitWidth, r.Unit,
				c.paint(padded, c.statusColor(r.Status)),
				c.config.RangeWidth, r.Range)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.RangeWidth+2))
		},
		"join": func(names []string) string {
			if len(names) == 0 {
				return "none"
			}
			return strings.Join(names, ", ")
		},
		"bound": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return strconv.FormatFloat(*v, 'g', -1, 64)
		},
	}
}

func (c *Reporter) execute(name, body string, data any) error {
	t, err := template.New(name).Funcs(c.funcMap()).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if _, err := t.Parse(summaryTemplate); err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

// Upload prints the recognized fields of one processed report.
func (c *Reporter) Upload(outcome pipeline.Outcome) error {
	rows := make([]row, 0, len(outcome.Report.Biomarkers))
	for name, f := range outcome.Report.Biomarkers {
		r := row{Name: name, Unit: f.Unit, Status: f.Status, Range: f.RangeText}
		if f.Value != nil {
			r.Value = strconv.FormatFloat(*f.Value, 'f', -1, 64)
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	merged := "none"
	if len(outcome.Merged) > 0 {
		merged = strings.Join(outcome.Merged, ", ")
	}

	return c.execute("upload", uploadTemplate, uploadView{
		Patient: outcome.Report.PatientInfo,
		Method:  outcome.Report.Method,
		Rows:    rows,
		Merged:  merged,
		Summary: outcome.Summary,
	})
}

func (c *Reporter) Summary(stats domain.SummaryStats, clinical summary.ClinicalSummary) error {
	return c.execute("clinical", clinicalTemplate, summaryView{Summary: stats, Clinical: clinical})
}

func (c *Reporter) Catalog(defs []catalog.Definition) error {
	type entry struct {
		Name     string
		Low      *float64
		High     float64
		Unit     string
		Category string
	}
	entries := make([]entry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, entry{Name: d.Name, Low: d.Bounds.Low, High: d.Bounds.High, Unit: d.Unit, Category: d.Category})
	}
	return c.execute("catalog", catalogTemplate, entries)
}

func (c *Reporter) Classification(name string, value float64, unit string, status domain.Status) error {
	_, err := fmt.Fprintf(c.writer, "%s %s %s: %s\n",
		name, strconv.FormatFloat(value, 'f', -1, 64), unit, c.paint(string(status), c.statusColor(status)))
	return err
}

func (c *Reporter) Exported(location string) error {
	_, err := fmt.Fprintf(c.writer, "%s %s\n", c.paint("Exported to", color.FgGreen), location)
	return err
}
