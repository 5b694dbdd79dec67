// Package catalog holds the fixed set of biomarkers the service tracks, the
// classification bounds for each, and the recognition labels used to find them
// in report text. A Catalog is immutable once built and is injected into the
// recognizer, classifier and aggregator.
package catalog

import (
	"fmt"
	"slices"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

const (
	TotalCholesterol = "Total Cholesterol"
	Triglycerides    = "Triglycerides"
	HDLCholesterol   = "HDL Cholesterol"
	LDLCholesterol   = "LDL Cholesterol"
	VitaminD         = "Vitamin D"
	VitaminB12       = "Vitamin B12"
	Creatinine       = "Creatinine"
	HbA1c            = "HbA1c"
	Hemoglobin       = "Hemoglobin"
)

const (
	CategoryLipids   = "Lipid Profile"
	CategoryVitamin  = "Vitamins"
	CategoryKidney   = "Kidney Function"
	CategoryDiabetes = "Diabetes"
	CategoryBlood    = "Blood Count"
)

type Polarity int

const (
	PolarityNone Polarity = iota
	HigherIsBetter
	LowerIsBetter
)

// Bounds are the classification bounds. Low is optional.
type Bounds struct {
	Low  *float64
	High float64
}

func (b Bounds) String() string {
	if b.Low == nil {
		return fmt.Sprintf("<= %g", b.High)
	}
	return fmt.Sprintf("%g - %g", *b.Low, b.High)
}

// Definition describes one catalog biomarker.
type Definition struct {
	Name     string
	Category string
	Unit     string
	// Label is a regular expression fragment matched against report text.
	// Empty means the biomarker is never read from text.
	Label       string
	Bounds      Bounds
	Display     domain.ReferenceRange
	Polarity    Polarity
	Color       string
	Description string
}

func (d Definition) Recognizable() bool {
	return d.Label != ""
}

type Catalog struct {
	defs  []Definition
	index map[string]int
}

// New builds a catalog from defs, preserving their order.
func New(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog definition without a name")
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog definition %q", d.Name)
		}
		if d.Bounds.Low != nil && *d.Bounds.Low > d.Bounds.High {
			return nil, fmt.Errorf("%s: low bound %g above high bound %g", d.Name, *d.Bounds.Low, d.Bounds.High)
		}
		c.index[d.Name] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultDefinitions())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Lookup(name string) (Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Definitions returns a copy of the definitions in catalog order.
func (c *Catalog) Definitions() []Definition {
	return slices.Clone(c.defs)
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.defs))
	for i, d := range c.defs {
		names[i] = d.Name
	}
	return names
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// Bounds returns the classification bounds for name.
func (c *Catalog) Bounds(name string) (Bounds, bool) {
	d, ok := c.Lookup(name)
	return d.Bounds, ok
}

func (c *Catalog) Polarity(name string) Polarity {
	d, ok := c.Lookup(name)
	if !ok {
		return PolarityNone
	}
	return d.Polarity
}

// WithBounds returns a copy of c with the given classification bounds
// replaced. Unknown names are rejected.
func (c *Catalog) WithBounds(overrides map[string]Bounds) (*Catalog, error) {
	defs := c.Definitions()
	for name, b := range overrides {
		i, ok := c.index[name]
		if !ok {
			return nil, fmt.Errorf("unknown biomarker %q in range overrides", name)
		}
		defs[i].Bounds = b
	}
	return New(defs)
}

func ptr(v float64) *float64 {
	return &v
}

func defaultDefinitions() []Definition {
	return []Definition{
		{
			Name:        TotalCholesterol,
			Category:    CategoryLipids,
			Unit:        "mg/dL",
			Label:       `Total\s+Cholesterol`,
			Bounds:      Bounds{High: 200},
			Display:     domain.ReferenceRange{Min: 0, Max: 200, Optimal: ptr(170)},
			Polarity:    LowerIsBetter,
			Color:       "#8884d8",
			Description: "Sum of all cholesterol carried in the blood",
		},
		{
			Name:        Triglycerides,
			Category:    CategoryLipids,
			Unit:        "mg/dL",
			Label:       `Triglycerides?`,
			Bounds:      Bounds{High: 150},
			Display:     domain.ReferenceRange{Min: 0, Max: 150, Optimal: ptr(100)},
			Polarity:    LowerIsBetter,
			Color:       "#82ca9d",
			Description: "Fat in the blood used for energy storage",
		},
		{
			Name:        HDLCholesterol,
			Category:    CategoryLipids,
			Unit:        "mg/dL",
			Label:       `HDL(?:[\s-]+Cholesterol)?`,
			Bounds:      Bounds{Low: ptr(40), High: 100},
			Display:     domain.ReferenceRange{Min: 40, Max: 100, Optimal: ptr(60)},
			Polarity:    HigherIsBetter,
			Color:       "#ffc658",
			Description: "High-density lipoprotein, the protective cholesterol fraction",
		},
		{
			Name:        LDLCholesterol,
			Category:    CategoryLipids,
			Unit:        "mg/dL",
			Label:       `LDL(?:[\s-]+Cholesterol)?`,
			Bounds:      Bounds{High: 100},
			Display:     domain.ReferenceRange{Min: 0, Max: 100, Optimal: ptr(70)},
			Polarity:    LowerIsBetter,
			Color:       "#ff7300",
			Description: "Low-density lipoprotein, the atherogenic cholesterol fraction",
		},
		{
			Name:        VitaminD,
			Category:    CategoryVitamin,
			Unit:        "ng/mL",
			Label:       `Vitamin\s+D3?`,
			Bounds:      Bounds{Low: ptr(30), High: 100},
			Display:     domain.ReferenceRange{Min: 30, Max: 100, Optimal: ptr(50)},
			Polarity:    HigherIsBetter,
			Color:       "#0088fe",
			Description: "25-hydroxy vitamin D, a marker of vitamin D status",
		},
		{
			Name:        VitaminB12,
			Category:    CategoryVitamin,
			Unit:        "pg/mL",
			Label:       `Vitamin\s+B12`,
			Bounds:      Bounds{Low: ptr(200), High: 900},
			Display:     domain.ReferenceRange{Min: 200, Max: 900, Optimal: ptr(500)},
			Polarity:    HigherIsBetter,
			Color:       "#00c49f",
			Description: "Cobalamin, required for nerve function and red cell production",
		},
		{
			Name:        Creatinine,
			Category:    CategoryKidney,
			Unit:        "mg/dL",
			Label:       `Creatinine`,
			Bounds:      Bounds{Low: ptr(0.7), High: 1.3},
			Display:     domain.ReferenceRange{Min: 0.7, Max: 1.3},
			Polarity:    LowerIsBetter,
			Color:       "#ff8042",
			Description: "Muscle waste product cleared by the kidneys",
		},
		{
			Name:        HbA1c,
			Category:    CategoryDiabetes,
			Unit:        "%",
			Label:       `HbA1c`,
			Bounds:      Bounds{High: 5.7},
			Display:     domain.ReferenceRange{Min: 4, Max: 5.7, Optimal: ptr(5)},
			Polarity:    LowerIsBetter,
			Color:       "#a4de6c",
			Description: "Glycated haemoglobin, average blood glucose over three months",
		},
		{
			Name:        Hemoglobin,
			Category:    CategoryBlood,
			Unit:        "g/dL",
			Bounds:      Bounds{Low: ptr(13.5), High: 17.5},
			Display:     domain.ReferenceRange{Min: 13.5, Max: 17.5},
			Polarity:    HigherIsBetter,
			Color:       "#d0ed57",
			Description: "Oxygen-carrying protein in red blood cells",
		},
	}
}
