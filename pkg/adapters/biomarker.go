package adapters

import (
	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

func MapReferenceRangeDomainToApi(r domain.ReferenceRange) api.ReferenceRange {
	c := r.Clone()
	return api.ReferenceRange{Min: c.Min, Max: c.Max, Optimal: c.Optimal}
}

func MapBiomarkerValueDomainToApi(v domain.BiomarkerValue) api.BiomarkerValue {
	return api.BiomarkerValue{
		Value:          v.Value,
		Unit:           v.Unit,
		Status:         string(v.Status),
		Trend:          string(v.Trend),
		Date:           v.Date,
		ReferenceRange: MapReferenceRangeDomainToApi(v.ReferenceRange),
	}
}

func MapBiomarkerDomainToApi(b domain.BiomarkerRecord) api.Biomarker {
	res := api.Biomarker{
		Name:                 b.Name,
		Category:             b.Category,
		CurrentValue:         MapBiomarkerValueDomainToApi(b.CurrentValue),
		History:              make([]api.BiomarkerValue, 0, len(b.History)),
		Description:          b.Description,
		ClinicalSignificance: b.ClinicalSignificance,
		Recommendations:      append([]string(nil), b.Recommendations...),
	}
	for _, h := range b.History {
		res.History = append(res.History, MapBiomarkerValueDomainToApi(h))
	}
	return res
}

func MapBiomarkersDomainToApi(m map[string]domain.BiomarkerRecord) map[string]api.Biomarker {
	res := make(map[string]api.Biomarker, len(m))
	for name, b := range m {
		res[name] = MapBiomarkerDomainToApi(b)
	}
	return res
}

func MapSummaryDomainToApi(s domain.SummaryStats) api.SummaryStats {
	return api.SummaryStats{
		Total:      s.Total,
		Normal:     s.Normal,
		OutOfRange: s.OutOfRange,
		Improving:  s.Improving,
	}
}
