package api

import "time"

type ReferenceRange struct {
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Optimal *float64 `json:"optimal,omitempty"`
}

type BiomarkerValue struct {
	Value          float64        `json:"value"`
	Unit           string         `json:"unit"`
	Status         string         `json:"status"`
	Trend          string         `json:"trend"`
	Date           string         `json:"date"`
	ReferenceRange ReferenceRange `json:"referenceRange"`
}

type Biomarker struct {
	Name                 string           `json:"name"`
	Category             string           `json:"category"`
	CurrentValue         BiomarkerValue   `json:"currentValue"`
	History              []BiomarkerValue `json:"history"`
	Description          string           `json:"description,omitempty"`
	ClinicalSignificance string           `json:"clinicalSignificance,omitempty"`
	Recommendations      []string         `json:"recommendations,omitempty"`
}

type PatientInfo struct {
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	ID          string    `json:"id"`
	ReportDate  string    `json:"reportDate,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type SummaryStats struct {
	Total      int `json:"total"`
	Normal     int `json:"normal"`
	OutOfRange int `json:"outOfRange"`
	Improving  int `json:"improving"`
}

type ReportRef struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ReportID    string    `json:"reportId"`
	PatientName string    `json:"patientName,omitempty"`
	ReportDate  string    `json:"reportDate,omitempty"`
	Method      string    `json:"method"`
	Extracted   []string  `json:"extracted"`
	ProcessedAt time.Time `json:"processedAt"`
}

type Patient struct {
	Info       PatientInfo          `json:"patientInfo"`
	Biomarkers map[string]Biomarker `json:"biomarkers"`
	Summary    SummaryStats         `json:"summary"`
	Reports    []ReportRef          `json:"reports"`
}
