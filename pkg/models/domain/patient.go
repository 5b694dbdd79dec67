package domain

import (
	"maps"
	"slices"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderUnknown Gender = "UNKNOWN"
)

// ParseGender maps the report abbreviations (M/F) and full words onto Gender.
func ParseGender(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return GenderMale
	case "F", "FEMALE":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

type PatientInfo struct {
	Name        string
	Age         int
	Gender      Gender
	ID          string
	ReportDate  string
	LastUpdated time.Time
}

// Merge overlays the non-empty fields of newer onto p.
func (p PatientInfo) Merge(newer PatientInfo) PatientInfo {
	out := p
	if newer.Name != "" {
		out.Name = newer.Name
	}
	if newer.Age > 0 {
		out.Age = newer.Age
	}
	if newer.Gender != "" && newer.Gender != GenderUnknown {
		out.Gender = newer.Gender
	}
	if out.Gender == "" {
		out.Gender = GenderUnknown
	}
	if newer.ID != "" {
		out.ID = newer.ID
	}
	if newer.ReportDate != "" {
		out.ReportDate = newer.ReportDate
	}
	if !newer.LastUpdated.IsZero() {
		out.LastUpdated = newer.LastUpdated
	}
	return out
}

// ReportRef records one successfully ingested report.
type ReportRef struct {
	ID          string
	Filename    string
	ReportID    string
	PatientName string
	ReportDate  string
	Method      ExtractionMethod
	Extracted   []string
	ProcessedAt time.Time
}

// PatientRecord is the aggregate root for a session. Biomarker keys are fixed
// to the catalog the record was seeded with.
type PatientRecord struct {
	Info       PatientInfo
	Biomarkers map[string]BiomarkerRecord
	Reports    []ReportRef
}

func (p PatientRecord) Clone() PatientRecord {
	out := PatientRecord{
		Info:       p.Info,
		Biomarkers: make(map[string]BiomarkerRecord, len(p.Biomarkers)),
		Reports:    make([]ReportRef, len(p.Reports)),
	}
	for k, b := range p.Biomarkers {
		out.Biomarkers[k] = b.Clone()
	}
	for i, r := range p.Reports {
		r.Extracted = slices.Clone(r.Extracted)
		out.Reports[i] = r
	}
	return out
}

// Names returns the biomarker keys in lexical order.
func (p PatientRecord) Names() []string {
	return slices.Sorted(maps.Keys(p.Biomarkers))
}
