package adapters

import (
	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

func MapPatientInfoDomainToApi(p domain.PatientInfo) api.PatientInfo {
	gender := p.Gender
	if gender == "" {
		gender = domain.GenderUnknown
	}
	return api.PatientInfo{
		Name:        p.Name,
		Age:         p.Age,
		Gender:      string(gender),
		ID:          p.ID,
		ReportDate:  p.ReportDate,
		LastUpdated: p.LastUpdated,
	}
}

func MapReportRefDomainToApi(r domain.ReportRef) api.ReportRef {
	extracted := append([]string{}, r.Extracted...)
	return api.ReportRef{
		ID:          r.ID,
		Filename:    r.Filename,
		ReportID:    r.ReportID,
		PatientName: r.PatientName,
		ReportDate:  r.ReportDate,
		Method:      string(r.Method),
		Extracted:   extracted,
		ProcessedAt: r.ProcessedAt,
	}
}

func MapPatientRecordDomainToApi(r domain.PatientRecord, stats domain.SummaryStats) api.Patient {
	res := api.Patient{
		Info:       MapPatientInfoDomainToApi(r.Info),
		Biomarkers: MapBiomarkersDomainToApi(r.Biomarkers),
		Summary:    MapSummaryDomainToApi(stats),
		Reports:    make([]api.ReportRef, 0, len(r.Reports)),
	}
	for _, ref := range r.Reports {
		res.Reports = append(res.Reports, MapReportRefDomainToApi(ref))
	}
	return res
}
