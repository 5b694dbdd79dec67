package api

import "time"

type ClinicalSummary struct {
	RiskFactors  []string `json:"riskFactors"`
	Improvements []string `json:"improvements"`
}

type ReportMetadata struct {
	SourceReports   []string        `json:"sourceReports"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	ClinicalSummary ClinicalSummary `json:"clinicalSummary"`
}

// ExportArtifact is the downloadable snapshot of the patient record.
type ExportArtifact struct {
	Patient        PatientInfo          `json:"patient"`
	Biomarkers     map[string]Biomarker `json:"biomarkers"`
	Summary        SummaryStats         `json:"summary"`
	ReportMetadata ReportMetadata       `json:"reportMetadata"`
}
