package payroll

import (
	"bytes"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

type presetsFile struct {
	City []presetEntry `toml:"city"`
}

type presetEntry struct {
	ID           string  `toml:"id"`
	Name         string  `toml:"name"`
	Pension      float64 `toml:"pension"`
	Medical      float64 `toml:"medical"`
	Unemployment float64 `toml:"unemployment"`
	Injury       float64 `toml:"injury"`
	Maternity    float64 `toml:"maternity"`
	Housing      float64 `toml:"housing"`
}

// LoadPresetsFile reads city presets from a TOML file made of [[city]] tables.
func LoadPresetsFile(path string) ([]CityPreset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read presets file %s", path)
	}
	cities, err := ParsePresets(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "load presets file %s", path)
	}
	return cities, nil
}

func ParsePresets(raw []byte) ([]CityPreset, error) {
	var file presetsFile
	decoder := toml.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Wrap(ErrInvalidPresetsFile, err.Error())
	}

	seen := map[string]bool{}
	cities := make([]CityPreset, 0, len(file.City))
	for i, entry := range file.City {
		id := strings.ToLower(strings.TrimSpace(entry.ID))
		if id == "" {
			return nil, errors.Wrapf(ErrInvalidPresetsFile, "city #%d: id is required", i+1)
		}
		if seen[id] {
			return nil, errors.Wrapf(ErrInvalidPresetsFile, "city %q: duplicate id", id)
		}
		seen[id] = true

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = id
		}
		rates := RateSet{
			Pension:      entry.Pension,
			Medical:      entry.Medical,
			Unemployment: entry.Unemployment,
			Injury:       entry.Injury,
			Maternity:    entry.Maternity,
			Housing:      entry.Housing,
		}
		verr := &ValidationError{}
		checkRates(verr, "", rates, DefaultRateBounds)
		if len(verr.Issues) > 0 {
			return nil, errors.Wrapf(ErrInvalidPresetsFile, "city %q: %s %s", id, verr.Issues[0].Field, verr.Issues[0].Reason)
		}
		cities = append(cities, CityPreset{ID: id, Name: name, Rates: rates})
	}
	return cities, nil
}

// ReloadPresets merges the file over the built-in presets and installs the result.
func ReloadPresets(registry *Presets, path string) ([]CityPreset, error) {
	overlay, err := LoadPresetsFile(path)
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultPresets, overlay)
	registry.Replace(merged)
	return merged, nil
}
