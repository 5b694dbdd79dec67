package recognize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
)

const sampleReport = `ECOTOWN DIAGNOSTICS
Name: MR. MANJUNATH SWAMY Age/Gender: 52 Y / M
Report ID: LAB-88213
Date: 16-06-2025
LIPID PROFILE
Total Cholesterol 212 mg/dL (0 - 200)
Triglycerides 180 mg/dL
HDL Cholesterol 38 mg/dL (40 - 60)
Non-HDL Cholesterol 174 mg/dL
LDL Cholesterol 135.5 mg/dL
VLDL 36 mg/dL
VITAMINS
Vitamin D3: 18.2 ng/mL 30 - 100
Vitamin B12 310 pg/mL
Creatinine 1.1 mg/dL
HbA1c 6.1 %
`

func newTestRecognizer(t *testing.T) *Recognizer {
	t.Helper()
	r, err := NewRecognizer(catalog.Default())
	require.NoError(t, err)
	r.Now = func() time.Time { return time.UnixMilli(1_750_000_123_456) }
	return r
}

func value(t *testing.T, report domain.RecognizedReport, name string) float64 {
	t.Helper()
	f, ok := report.Biomarkers[name]
	require.True(t, ok, "missing %s", name)
	require.NotNil(t, f.Value, "no value for %s", name)
	return *f.Value
}

func TestRecognize_FullReport(t *testing.T) {
	r := newTestRecognizer(t)

	report := r.Recognize(context.Background(), sampleReport, "report.pdf")

	assert.Equal(t, "MR. MANJUNATH SWAMY", report.PatientInfo.Name)
	assert.Equal(t, 52, report.PatientInfo.Age)
	assert.Equal(t, domain.GenderMale, report.PatientInfo.Gender)
	assert.Equal(t, "2025-06-16", report.PatientInfo.ReportDate)
	assert.Equal(t, "LAB-88213", report.PatientInfo.ID)
	assert.Equal(t, sampleReport, report.RawText)

	assert.Equal(t, 212.0, value(t, report, catalog.TotalCholesterol))
	assert.Equal(t, 180.0, value(t, report, catalog.Triglycerides))
	assert.Equal(t, 38.0, value(t, report, catalog.HDLCholesterol))
	assert.Equal(t, 135.5, value(t, report, catalog.LDLCholesterol))
	assert.Equal(t, 18.2, value(t, report, catalog.VitaminD))
	assert.Equal(t, 310.0, value(t, report, catalog.VitaminB12))
	assert.Equal(t, 1.1, value(t, report, catalog.Creatinine))
	assert.Equal(t, 6.1, value(t, report, catalog.HbA1c))
	assert.Equal(t, 8, report.Present())

	hdl := report.Biomarkers[catalog.HDLCholesterol]
	assert.Equal(t, "40 - 60", hdl.RangeText)
	require.NotNil(t, hdl.ReferenceRange)
	assert.Equal(t, 40.0, hdl.ReferenceRange.Min)
	assert.Equal(t, 60.0, hdl.ReferenceRange.Max)

	vitD := report.Biomarkers[catalog.VitaminD]
	assert.Equal(t, "30 - 100", vitD.RangeText)
	assert.Equal(t, "ng/mL", vitD.Unit)
}

func TestRecognize_MinimalLipidLines(t *testing.T) {
	r := newTestRecognizer(t)

	report := r.Recognize(context.Background(), "HDL 38 mg/dL\nLDL 145 mg/dL", "lipids.pdf")

	assert.Equal(t, 38.0, value(t, report, catalog.HDLCholesterol))
	assert.Equal(t, 145.0, value(t, report, catalog.LDLCholesterol))
	assert.Equal(t, 2, report.Present())

	for name, f := range report.Biomarkers {
		if name == catalog.HDLCholesterol || name == catalog.LDLCholesterol {
			continue
		}
		assert.Nil(t, f.Value, name)
		assert.Equal(t, domain.StatusNormal, f.Status, name)
	}
	assert.Len(t, report.Biomarkers, 8)
	assert.NotContains(t, report.Biomarkers, catalog.Hemoglobin)
}

func TestRecognize_CompoundLabelsDoNotCrossMatch(t *testing.T) {
	r := newTestRecognizer(t)

	text := "Non-HDL Cholesterol 160 mg/dL\nNon HDL 150 mg/dL\nVLDL 30 mg/dL\nCholesterol/HDL Ratio 4.2"
	report := r.Recognize(context.Background(), text, "x.pdf")

	assert.Nil(t, report.Biomarkers[catalog.HDLCholesterol].Value)
	assert.Nil(t, report.Biomarkers[catalog.LDLCholesterol].Value)
	assert.Nil(t, report.Biomarkers[catalog.TotalCholesterol].Value)
}

func TestRecognize_SkipsNegatedMatchAndUsesLaterOne(t *testing.T) {
	r := newTestRecognizer(t)

	report := r.Recognize(context.Background(), "Non-HDL Cholesterol 160 mg/dL\nHDL Cholesterol 52 mg/dL", "x.pdf")

	assert.Equal(t, 52.0, value(t, report, catalog.HDLCholesterol))
}

func TestRecognize_NumberMustPrecedeUnit(t *testing.T) {
	r := newTestRecognizer(t)

	report := r.Recognize(context.Background(), "HbA1c 5.9 mmol/mol\nCreatinine 1.0 umol/L", "x.pdf")

	assert.Nil(t, report.Biomarkers[catalog.HbA1c].Value)
	assert.Nil(t, report.Biomarkers[catalog.Creatinine].Value)
}

func TestRecognize_MissingPatientFields(t *testing.T) {
	r := newTestRecognizer(t)

	report := r.Recognize(context.Background(), "no header here", "x.pdf")

	assert.Empty(t, report.PatientInfo.Name)
	assert.Zero(t, report.PatientInfo.Age)
	assert.Equal(t, domain.GenderUnknown, report.PatientInfo.Gender)
	assert.Empty(t, report.PatientInfo.ReportDate)
	assert.Equal(t, "RPT-123456", report.PatientInfo.ID)
}

func TestPatientInfo_NameAndAgeVariants(t *testing.T) {
	r := newTestRecognizer(t)

	tests := []struct {
		name       string
		text       string
		wantName   string
		wantAge    int
		wantGender domain.Gender
	}{
		{
			name:       "name followed by label on same line",
			text:       "Name: JANE DOE Age/Gender: 34 Y F",
			wantName:   "JANE DOE",
			wantAge:    34,
			wantGender: domain.GenderFemale,
		},
		{
			name:       "name on its own line",
			text:       "Name: DR. A. K. RAO\nAge/Gender: 60Y/M",
			wantName:   "DR. A. K. RAO",
			wantAge:    60,
			wantGender: domain.GenderMale,
		},
		{
			name:       "age without gender",
			text:       "Name: SAM\nAge/Gender: 18 Y",
			wantName:   "SAM",
			wantAge:    18,
			wantGender: domain.GenderUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := r.patientInfo(tc.text)
			assert.Equal(t, tc.wantName, info.Name)
			assert.Equal(t, tc.wantAge, info.Age)
			assert.Equal(t, tc.wantGender, info.Gender)
		})
	}
}

func TestPatientInfo_QualifiedLabels(t *testing.T) {
	r := newTestRecognizer(t)

	tests := []struct {
		name     string
		text     string
		wantName string
		wantDate string
	}{
		{
			name:     "doctor name before patient header",
			text:     "Doctor Name: DR. RAO\nName: JANE DOE Age/Gender: 34 Y F\nDate: 05-01-2026",
			wantName: "JANE DOE",
			wantDate: "2026-01-05",
		},
		{
			name:     "patient qualifier wins over earlier bare label",
			text:     "Lab: CITY\nReferring Doctor Name: DR. A. K. RAO\nPatient Name: SAM\nReport Date: 10-02-2026",
			wantName: "SAM",
			wantDate: "2026-02-10",
		},
		{
			name:     "collection date before report date",
			text:     "Collection Date: 01-01-2020\nName: JANE DOE\nDate: 05-01-2026",
			wantName: "JANE DOE",
			wantDate: "2026-01-05",
		},
		{
			name:     "only qualified labels",
			text:     "Doctor Name: DR. RAO\nCollection Date: 01-01-2020",
			wantName: "",
			wantDate: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := r.patientInfo(tc.text)
			assert.Equal(t, tc.wantName, info.Name)
			assert.Equal(t, tc.wantDate, info.ReportDate)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-06-16", normalizeDate("16-06-2025"))
	assert.Equal(t, "2025-06-16", normalizeDate("2025-06-16"))
	assert.Equal(t, "2025-06-16", normalizeDate("16-06-25"))
	assert.Equal(t, "2025", normalizeDate("2025"))
}

func TestRecognize_UsesInjectedCatalog(t *testing.T) {
	c, err := catalog.New([]catalog.Definition{
		{Name: "Ferritin", Unit: "ng/mL", Label: `Ferritin`, Bounds: catalog.Bounds{High: 300}},
	})
	require.NoError(t, err)
	r, err := NewRecognizer(c)
	require.NoError(t, err)

	report := r.Recognize(context.Background(), "Ferritin 120 ng/mL\nHDL 50 mg/dL", "x.pdf")

	assert.Len(t, report.Biomarkers, 1)
	assert.Equal(t, 120.0, value(t, report, "Ferritin"))
}
