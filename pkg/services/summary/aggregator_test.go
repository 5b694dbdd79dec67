package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
)

func record(status domain.Status, values ...float64) domain.BiomarkerRecord {
	r := domain.BiomarkerRecord{}
	for _, v := range values {
		r.History = append(r.History, domain.BiomarkerValue{Value: v, Status: status})
	}
	if len(r.History) > 0 {
		r.CurrentValue = r.History[len(r.History)-1]
	} else {
		r.CurrentValue = domain.BiomarkerValue{Status: status}
	}
	return r
}

func normalCatalogMap() map[string]domain.BiomarkerRecord {
	m := make(map[string]domain.BiomarkerRecord)
	for _, name := range catalog.Default().Names() {
		m[name] = record(domain.StatusNormal, 1)
	}
	return m
}

func TestCompute_NoImprovementWithShortHistory(t *testing.T) {
	a := NewAggregator(catalog.Default())

	stats := a.Compute(normalCatalogMap())

	assert.Equal(t, domain.SummaryStats{Total: 9, Normal: 9}, stats)
}

func TestCompute_Polarity(t *testing.T) {
	a := NewAggregator(catalog.Default())
	m := normalCatalogMap()
	m[catalog.HDLCholesterol] = record(domain.StatusNormal, 30, 38, 45)
	m[catalog.LDLCholesterol] = record(domain.StatusHigh, 160, 140, 120)
	m[catalog.HbA1c] = record(domain.StatusNormal, 5.5, 5.5)
	m[catalog.VitaminD] = record(domain.StatusLow, 30, 25)

	stats := a.Compute(m)

	assert.Equal(t, 2, stats.Improving)
	assert.True(t, a.Improving(catalog.HDLCholesterol, m[catalog.HDLCholesterol]))
	assert.True(t, a.Improving(catalog.LDLCholesterol, m[catalog.LDLCholesterol]))
	assert.False(t, a.Improving(catalog.HbA1c, m[catalog.HbA1c]))
	assert.False(t, a.Improving(catalog.VitaminD, m[catalog.VitaminD]))
	assert.False(t, a.Improving("Ferritin", record(domain.StatusNormal, 1, 2)))
}

func TestCompute_Counts(t *testing.T) {
	a := NewAggregator(catalog.Default())
	m := normalCatalogMap()
	m[catalog.HDLCholesterol] = record(domain.StatusLow, 38)
	m[catalog.LDLCholesterol] = record(domain.StatusHigh, 145)
	m[catalog.Creatinine] = record(domain.StatusCritical, 4)

	stats := a.Compute(m)

	assert.Equal(t, 9, stats.Total)
	assert.Equal(t, 6, stats.Normal)
	assert.Equal(t, 3, stats.OutOfRange)
}

func TestClinical(t *testing.T) {
	a := NewAggregator(catalog.Default())
	m := normalCatalogMap()
	m[catalog.HDLCholesterol] = record(domain.StatusLow, 42, 38)
	m[catalog.HbA1c] = record(domain.StatusNormal, 5.5, 5.5)
	m[catalog.Triglycerides] = record(domain.StatusNormal, 140, 120)

	cs := a.Clinical(m)

	assert.Equal(t, []string{catalog.HDLCholesterol}, cs.RiskFactors)
	assert.Equal(t, []string{catalog.HDLCholesterol, catalog.Triglycerides}, cs.Improvements)
}
