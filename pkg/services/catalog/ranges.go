package catalog

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// LoadRangeOverrides reads classification bounds from an INI file. Each
// section names a biomarker and carries an optional `low` and a required
// `high` key:
//
//	[HDL Cholesterol]
//	low  = 40
//	high = 100
func LoadRangeOverrides(path string) (map[string]Bounds, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load range overrides: %w", err)
	}
	return parseRangeOverrides(cfg)
}

func parseRangeOverrides(cfg *ini.File) (map[string]Bounds, error) {
	overrides := make(map[string]Bounds)
	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		name := section.Name()

		if !section.HasKey("high") {
			return nil, fmt.Errorf("range override %q has no high bound", name)
		}
		high, err := section.Key("high").Float64()
		if err != nil {
			return nil, fmt.Errorf("range override %q: invalid high bound: %w", name, err)
		}

		b := Bounds{High: high}
		if section.HasKey("low") {
			low, err := section.Key("low").Float64()
			if err != nil {
				return nil, fmt.Errorf("range override %q: invalid low bound: %w", name, err)
			}
			b.Low = &low
		}
		overrides[name] = b
	}
	return overrides, nil
}

// FromFile returns the default catalog with the bounds in path applied. An
// empty path yields the default catalog unchanged.
func FromFile(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	overrides, err := LoadRangeOverrides(path)
	if err != nil {
		return nil, err
	}
	return c.WithBounds(overrides)
}
