package api

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ExtractResponse is the body of the local extraction endpoint.
type ExtractResponse struct {
	Text   string `json:"text"`
	Method string `json:"method"`
}

type RecognizedBiomarker struct {
	Value        *float64        `json:"value"`
	Unit         string          `json:"unit"`
	Status       string          `json:"status"`
	RangeText    string          `json:"referenceRange,omitempty"`
	DisplayRange *ReferenceRange `json:"displayRange,omitempty"`
}

type ExtractedReport struct {
	PatientInfo PatientInfo                    `json:"patientInfo"`
	Biomarkers  map[string]RecognizedBiomarker `json:"biomarkers"`
	Method      string                         `json:"method"`
	RawText     string                         `json:"rawText,omitempty"`
}

type ReportUploadResponse struct {
	Report  ExtractedReport `json:"report"`
	Merged  []string        `json:"merged"`
	Summary SummaryStats    `json:"summary"`
	Upload  ReportRef       `json:"upload"`
}

type UploadState struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
