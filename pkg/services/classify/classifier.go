package classify

import (
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
)

// Classifier maps a biomarker value onto a status using the catalog's
// classification bounds. It never produces StatusCritical; that status only
// arrives with externally supplied data.
type Classifier struct {
	catalog *catalog.Catalog
}

func NewClassifier(c *catalog.Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// Classify returns Low below the low bound, High above the high bound and
// Normal otherwise. Unknown names are Normal.
func (c *Classifier) Classify(name string, value float64) domain.Status {
	b, ok := c.catalog.Bounds(name)
	if !ok {
		return domain.StatusNormal
	}
	switch {
	case b.Low != nil && value < *b.Low:
		return domain.StatusLow
	case value > b.High:
		return domain.StatusHigh
	default:
		return domain.StatusNormal
	}
}

// ClassifyReport returns a copy of report with the status of every present
// biomarker recomputed. Absent biomarkers keep their placeholder status.
func (c *Classifier) ClassifyReport(report domain.RecognizedReport) domain.RecognizedReport {
	out := report
	out.Biomarkers = make(map[string]domain.RecognizedField, len(report.Biomarkers))
	for name, f := range report.Biomarkers {
		if f.Present() {
			f.Status = c.Classify(name, *f.Value)
		}
		out.Biomarkers[name] = f
	}
	return out
}
