// Package chart shapes biomarker histories into the grouped series consumed
// by the chart renderer.
package chart

import (
	"fmt"
	"time"

	"github.com/ecotown/biomarker-atlas/pkg/adapters"
	"github.com/ecotown/biomarker-atlas/pkg/models/api"
	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
	"github.com/ecotown/biomarker-atlas/pkg/services/catalog"
)

type DateRange string

const (
	AllTime      DateRange = "all-time"
	LastQuarter  DateRange = "last-3-months"
	LastHalfYear DateRange = "last-6-months"
	LastYear     DateRange = "last-year"
)

func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(s); r {
	case "":
		return AllTime, nil
	case AllTime, LastQuarter, LastHalfYear, LastYear:
		return r, nil
	default:
		return "", fmt.Errorf("unknown date range %q", s)
	}
}

// Start returns the earliest date kept by r, or the zero time for AllTime.
func (r DateRange) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch r {
	case LastQuarter:
		return day.AddDate(0, -3, 0)
	case LastHalfYear:
		return day.AddDate(0, -6, 0)
	case LastYear:
		return day.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

type Builder struct {
	catalog *catalog.Catalog
}

func NewBuilder(c *catalog.Catalog) *Builder {
	return &Builder{catalog: c}
}

// Groups returns one group per catalog category, in catalog order, holding the
// series of every biomarker present in record.
func (b *Builder) Groups(record domain.PatientRecord, r DateRange, now time.Time) []api.ChartGroup {
	start := r.Start(now)

	var groups []api.ChartGroup
	index := make(map[string]int)
	for _, def := range b.catalog.Definitions() {
		rec, ok := record.Biomarkers[def.Name]
		if !ok {
			continue
		}
		i, seen := index[def.Category]
		if !seen {
			i = len(groups)
			index[def.Category] = i
			groups = append(groups, api.ChartGroup{Title: def.Category})
		}
		groups[i].Biomarkers = append(groups[i].Biomarkers, series(def, rec, start))
	}
	return groups
}

func series(def catalog.Definition, rec domain.BiomarkerRecord, start time.Time) api.ChartSeries {
	rr := rec.CurrentValue.ReferenceRange
	if rr.IsZero() {
		rr = def.Display
	}
	unit := rec.CurrentValue.Unit
	if unit == "" {
		unit = def.Unit
	}

	s := api.ChartSeries{
		Name:           def.Name,
		Data:           []api.ChartPoint{},
		Color:          def.Color,
		ReferenceRange: adapters.MapReferenceRangeDomainToApi(rr),
		Unit:           unit,
	}
	for _, h := range rec.History {
		if !start.IsZero() {
			d, err := time.Parse("2006-01-02", h.Date)
			if err != nil || d.Before(start) {
				continue
			}
		}
		s.Data = append(s.Data, api.ChartPoint{Date: h.Date, Value: h.Value, Status: string(h.Status)})
	}
	return s
}
