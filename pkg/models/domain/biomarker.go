package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Status string

const (
	StatusLow      Status = "Low"
	StatusNormal   Status = "Normal"
	StatusHigh     Status = "High"
	StatusCritical Status = "Critical"
)

// ParseStatus accepts the four known statuses case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusLow, StatusNormal, StatusHigh, StatusCritical} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// OutOfRange reports whether the status counts against the patient.
func (s Status) OutOfRange() bool {
	return s == StatusLow || s == StatusHigh || s == StatusCritical
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ReferenceRange carries display bounds, not classification bounds.
type ReferenceRange struct {
	Min     float64
	Max     float64
	Optimal *float64
}

func (r ReferenceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0 && r.Optimal == nil
}

func (r ReferenceRange) Clone() ReferenceRange {
	out := r
	if r.Optimal != nil {
		v := *r.Optimal
		out.Optimal = &v
	}
	return out
}

// BiomarkerValue is a single recorded observation. Values are never edited in
// place; a new observation always produces a new BiomarkerValue.
type BiomarkerValue struct {
	Value          float64
	Unit           string
	Status         Status
	Trend          Trend
	Date           string // YYYY-MM-DD
	ReferenceRange ReferenceRange
}

func (v BiomarkerValue) Clone() BiomarkerValue {
	out := v
	out.ReferenceRange = v.ReferenceRange.Clone()
	return out
}

// BiomarkerRecord is the per-biomarker time series. CurrentValue always equals
// the last element of History once a merge has happened.
type BiomarkerRecord struct {
	Name                 string
	Category             string
	CurrentValue         BiomarkerValue
	History              []BiomarkerValue // ascending by date
	Description          string
	ClinicalSignificance string
	Recommendations      []string
}

func (b BiomarkerRecord) Clone() BiomarkerRecord {
	out := b
	out.CurrentValue = b.CurrentValue.Clone()
	out.History = make([]BiomarkerValue, len(b.History))
	for i, h := range b.History {
		out.History[i] = h.Clone()
	}
	out.Recommendations = slices.Clone(b.Recommendations)
	return out
}

// Latest returns the two most recent history values.
func (b BiomarkerRecord) Latest() (latest, previous float64, ok bool) {
	n := len(b.History)
	if n < 2 {
		return 0, 0, false
	}
	return b.History[n-1].Value, b.History[n-2].Value, true
}

type SummaryStats struct {
	Total      int
	Normal     int
	OutOfRange int
	Improving  int
}
