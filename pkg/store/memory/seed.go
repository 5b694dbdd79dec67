package memory

import (
	"time"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
	"github.com/ecotown/biomarker-atlas/pkg/services/classify"
)

var seedDates = []string{"2024-12-10", "2025-03-12", "2025-06-16"}

var seedValues = map[string][]float64{
	catalog.TotalCholesterol: {228, 215, 204},
	catalog.Triglycerides:    {182, 165, 158},
	catalog.HDLCholesterol:   {36, 39, 42},
	catalog.LDLCholesterol:   {148, 139, 131},
	catalog.VitaminD:         {16.4, 21.8, 27.5},
	catalog.VitaminB12:       {245, 262, 298},
	catalog.Creatinine:       {1.02, 0.98, 1.05},
	catalog.HbA1c:            {5.9, 5.8, 5.8},
	catalog.Hemoglobin:       {14.1, 14.4, 14.2},
}

var seedNotes = map[string]struct {
	significance    string
	recommendations []string
}{
	catalog.TotalCholesterol: {"Elevated total cholesterol raises cardiovascular risk.", []string{"Reduce saturated fat intake", "Increase soluble fibre"}},
	catalog.Triglycerides:    {"High triglycerides are linked to metabolic syndrome.", []string{"Limit refined carbohydrates", "Avoid alcohol"}},
	catalog.HDLCholesterol:   {"Low HDL reduces reverse cholesterol transport.", []string{"Aerobic exercise 150 minutes a week", "Include nuts and olive oil"}},
	catalog.LDLCholesterol:   {"LDL is the primary target for lipid lowering therapy.", []string{"Discuss statin therapy with physician", "Follow a Mediterranean diet"}},
	catalog.VitaminD:         {"Deficiency affects bone density and immunity.", []string{"Daily sun exposure", "Vitamin D3 supplementation as advised"}},
	catalog.VitaminB12:       {"Low normal B12 can cause fatigue and neuropathy.", []string{"Include dairy and eggs"}},
	catalog.Creatinine:       {"Stable creatinine indicates preserved kidney function.", []string{"Stay hydrated"}},
	catalog.HbA1c:            {"Prediabetic range; monitor glucose control.", []string{"Reduce sugar intake", "Recheck in three months"}},
	catalog.Hemoglobin:       {"Normal oxygen carrying capacity.", []string{"Maintain iron rich diet"}},
}

// SeedRecord returns the record a session starts from: every catalog
// biomarker with a short history.
func SeedRecord(c *catalog.Catalog) domain.PatientRecord {
	classifier := classify.NewClassifier(c)

	record := domain.PatientRecord{
		Info: domain.PatientInfo{
			Name:        "MR. MANJUNATH SWAMY",
			Age:         52,
			Gender:      domain.GenderMale,
			ID:          "ECO-2025-0616",
			ReportDate:  seedDates[len(seedDates)-1],
			LastUpdated: time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
		},
		Biomarkers: make(map[string]domain.BiomarkerRecord, c.Len()),
	}

	for _, def := range c.Definitions() {
		values, ok := seedValues[def.Name]
		if !ok {
			continue
		}
		b := domain.BiomarkerRecord{
			Name:                 def.Name,
			Category:             def.Category,
			Description:          def.Description,
			ClinicalSignificance: seedNotes[def.Name].significance,
			Recommendations:      seedNotes[def.Name].recommendations,
		}
		for i, v := range values {
			trend := domain.TrendStable
			if i > 0 && v > values[i-1] {
				trend = domain.TrendUp
			} else if i > 0 && v < values[i-1] {
				trend = domain.TrendDown
			}
			b.History = append(b.History, domain.BiomarkerValue{
				Value:          v,
				Unit:           def.Unit,
				Status:         classifier.Classify(def.Name, v),
				Trend:          trend,
				Date:           seedDates[i],
				ReferenceRange: def.Display.Clone(),
			})
		}
		b.CurrentValue = b.History[len(b.History)-1].Clone()
		record.Biomarkers[def.Name] = b
	}
	return record
}
