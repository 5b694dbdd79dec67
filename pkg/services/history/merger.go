// Package history merges newly recognized observations into a patient's
// bounded per-biomarker history.
package history

import (
	"slices"
	"time"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

const DefaultMaxEntries = 6

const dateLayout = "2006-01-02"

type Merger struct {
	// MaxEntries caps the history length. Oldest entries are evicted first,
	// by position.
	MaxEntries int
	// OverwriteMissingFields makes the new observation replace the current
	// value wholesale. When false, an empty unit, date or reference range is
	// taken from the previous current value.
	OverwriteMissingFields bool
	// DeriveTrend compares the new value against the previous current value.
	// When false every new value is marked stable.
	DeriveTrend bool

	Now func() time.Time
}

func NewMerger() *Merger {
	return &Merger{MaxEntries: DefaultMaxEntries, Now: time.Now}
}

func (m *Merger) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Merger) maxEntries() int {
	if m.MaxEntries < 1 {
		return 1
	}
	return m.MaxEntries
}

// Merge returns a new record with obs appended to the history and set as the
// current value. record is left untouched.
func (m *Merger) Merge(record domain.BiomarkerRecord, obs domain.Observation) domain.BiomarkerRecord {
	out := record.Clone()
	prior := record.CurrentValue
	hasPrior := len(record.History) > 0

	value := domain.BiomarkerValue{
		Value:  obs.Value,
		Unit:   obs.Unit,
		Status: obs.Status,
		Trend:  domain.TrendStable,
		Date:   obs.Date,
	}
	if obs.ReferenceRange != nil {
		value.ReferenceRange = obs.ReferenceRange.Clone()
	}
	if value.Status == "" {
		value.Status = domain.StatusNormal
	}

	if !m.OverwriteMissingFields && hasPrior {
		if value.Unit == "" {
			value.Unit = prior.Unit
		}
		if value.Date == "" {
			value.Date = prior.Date
		}
		if obs.ReferenceRange == nil {
			value.ReferenceRange = prior.ReferenceRange.Clone()
		}
	}

	if m.DeriveTrend && hasPrior {
		switch {
		case value.Value > prior.Value:
			value.Trend = domain.TrendUp
		case value.Value < prior.Value:
			value.Trend = domain.TrendDown
		}
	}

	keep := m.maxEntries() - 1
	history := out.History
	if len(history) > keep {
		history = history[len(history)-keep:]
	}
	out.History = append(slices.Clip(history), value)
	out.CurrentValue = value.Clone()
	return out
}

// MergeReport merges every present biomarker of report that already exists in
// record. Biomarkers without a value and names outside the record are skipped.
// It returns the merged record and the sorted names that were merged.
func (m *Merger) MergeReport(record domain.PatientRecord, report domain.RecognizedReport) (domain.PatientRecord, []string) {
	out := record.Clone()
	now := m.now()

	date := report.PatientInfo.ReportDate
	if _, err := time.Parse(dateLayout, date); err != nil {
		date = now.Format(dateLayout)
	}

	var merged []string
	for name, field := range report.Biomarkers {
		existing, ok := out.Biomarkers[name]
		if !ok || !field.Present() {
			continue
		}
		out.Biomarkers[name] = m.Merge(existing, domain.Observation{
			Value:          *field.Value,
			Unit:           field.Unit,
			Status:         field.Status,
			Date:           date,
			ReferenceRange: field.ReferenceRange,
		})
		merged = append(merged, name)
	}
	slices.Sort(merged)

	info := report.PatientInfo
	info.LastUpdated = now
	out.Info = out.Info.Merge(info)
	return out, merged
}
