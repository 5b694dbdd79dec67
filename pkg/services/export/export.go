// Package export renders the patient record into the downloadable JSON
// snapshot and writes it to a sink.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ecotown/biomarker-atlas/pkg/adapters"
	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/summary"
)

var whitespace = regexp.MustCompile(`\s+`)

// Sink stores an export and returns where it went.
type Sink interface {
	Write(ctx context.Context, filename string, data []byte) (string, error)
}

type Builder struct {
	aggregator *summary.Aggregator

	Now func() time.Time
}

func NewBuilder(aggregator *summary.Aggregator) *Builder {
	return &Builder{aggregator: aggregator, Now: time.Now}
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now().UTC()
	}
	return b.Now().UTC()
}

// Build snapshots record. The artifact is never read back.
func (b *Builder) Build(record domain.PatientRecord) api.ExportArtifact {
	clinical := b.aggregator.Clinical(record.Biomarkers)
	return api.ExportArtifact{
		Patient:    adapters.MapPatientInfoDomainToApi(record.Info),
		Biomarkers: adapters.MapBiomarkersDomainToApi(record.Biomarkers),
		Summary:    adapters.MapSummaryDomainToApi(b.aggregator.Compute(record.Biomarkers)),
		ReportMetadata: api.ReportMetadata{
			SourceReports: sourceReports(record),
			GeneratedAt:   b.now(),
			ClinicalSummary: api.ClinicalSummary{
				RiskFactors:  clinical.RiskFactors,
				Improvements: clinical.Improvements,
			},
		},
	}
}

func sourceReports(record domain.PatientRecord) []string {
	if len(record.Reports) == 0 {
		return []string{
			fmt.Sprintf("%s Health Report", record.Info.Name),
			fmt.Sprintf("Date: %s", record.Info.ReportDate),
		}
	}
	sources := make([]string, 0, len(record.Reports))
	for _, r := range record.Reports {
		sources = append(sources, fmt.Sprintf("%s (Report ID: %s, Date: %s)", r.Filename, r.ReportID, r.ReportDate))
	}
	return sources
}

// Filename is ecotown-health-<name with dashes>-<YYYY-MM-DD>.json.
func Filename(patientName string, at time.Time) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(patientName), "-")
	if name == "" {
		name = "patient"
	}
	return fmt.Sprintf("ecotown-health-%s-%s.json", name, at.UTC().Format("2006-01-02"))
}

// Render returns the artifact, its filename and the indented JSON body.
func (b *Builder) Render(record domain.PatientRecord) (api.ExportArtifact, string, []byte, error) {
	artifact := b.Build(record)
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return api.ExportArtifact{}, "", nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return artifact, Filename(record.Info.Name, artifact.ReportMetadata.GeneratedAt), data, nil
}
