package adapters

import (
	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

func MapExtractionResultDomainToApi(r domain.ExtractionResult) api.ExtractResponse {
	return api.ExtractResponse{Text: r.Text, Method: string(r.Method)}
}

func MapRecognizedFieldDomainToApi(f domain.RecognizedField) api.RecognizedBiomarker {
	res := api.RecognizedBiomarker{
		Unit:      f.Unit,
		Status:    string(f.Status),
		RangeText: f.RangeText,
	}
	if f.Value != nil {
		v := *f.Value
		res.Value = &v
	}
	if f.ReferenceRange != nil {
		rr := MapReferenceRangeDomainToApi(*f.ReferenceRange)
		res.DisplayRange = &rr
	}
	return res
}

// MapRecognizedReportDomainToApi leaves out the raw text unless withText is set.
func MapRecognizedReportDomainToApi(r domain.RecognizedReport, withText bool) api.ExtractedReport {
	res := api.ExtractedReport{
		PatientInfo: MapPatientInfoDomainToApi(r.PatientInfo),
		Biomarkers:  make(map[string]api.RecognizedBiomarker, len(r.Biomarkers)),
		Method:      string(r.Method),
	}
	for name, f := range r.Biomarkers {
		res.Biomarkers[name] = MapRecognizedFieldDomainToApi(f)
	}
	if withText {
		res.RawText = r.RawText
	}
	return res
}

func MapUploadStateDomainToApi(s domain.UploadState) api.UploadState {
	return api.UploadState{
		Status:    string(s.Status),
		Message:   s.Message,
		Filename:  s.Filename,
		UpdatedAt: s.UpdatedAt,
	}
}
