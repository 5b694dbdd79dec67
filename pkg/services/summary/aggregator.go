package summary

import (
	"maps"
	"slices"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
)

// Aggregator derives summary statistics from a biomarker map. Nothing is
// cached; every call recomputes from the map it is given.
type Aggregator struct {
	catalog *catalog.Catalog
}

func NewAggregator(c *catalog.Catalog) *Aggregator {
	return &Aggregator{catalog: c}
}

func (a *Aggregator) Compute(biomarkers map[string]domain.BiomarkerRecord) domain.SummaryStats {
	stats := domain.SummaryStats{Total: a.catalog.Len()}
	for name, b := range biomarkers {
		switch {
		case b.CurrentValue.Status == domain.StatusNormal:
			stats.Normal++
		case b.CurrentValue.Status.OutOfRange():
			stats.OutOfRange++
		}
		if a.Improving(name, b) {
			stats.Improving++
		}
	}
	return stats
}

// Improving reports whether the latest history value beats the previous one
// in the direction the biomarker's polarity prefers. Ties never improve.
func (a *Aggregator) Improving(name string, b domain.BiomarkerRecord) bool {
	latest, previous, ok := b.Latest()
	if !ok {
		return false
	}
	switch a.catalog.Polarity(name) {
	case catalog.HigherIsBetter:
		return latest > previous
	case catalog.LowerIsBetter:
		return latest < previous
	default:
		return false
	}
}

type ClinicalSummary struct {
	RiskFactors  []string
	Improvements []string
}

// Clinical lists out-of-range biomarkers and biomarkers whose last two
// history values differ, both in name order.
func (a *Aggregator) Clinical(biomarkers map[string]domain.BiomarkerRecord) ClinicalSummary {
	cs := ClinicalSummary{RiskFactors: []string{}, Improvements: []string{}}
	for _, name := range slices.Sorted(maps.Keys(biomarkers)) {
		b := biomarkers[name]
		if b.CurrentValue.Status.OutOfRange() {
			cs.RiskFactors = append(cs.RiskFactors, name)
		}
		if latest, previous, ok := b.Latest(); ok && latest != previous {
			cs.Improvements = append(cs.Improvements, name)
		}
	}
	return cs
}
