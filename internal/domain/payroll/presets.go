package payroll

import (
	"strings"
	"sync"
)

// Presets is the ordered set of city presets. The first entry is the default city.
type Presets struct {
	mu     sync.RWMutex
	cities []CityPreset
}

func NewPresets(cities []CityPreset) *Presets {
	p := &Presets{}
	p.Replace(cities)
	return p
}

func DefaultPresetRegistry() *Presets {
	return NewPresets(DefaultPresets)
}

func (p *Presets) List() []CityPreset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]CityPreset, len(p.cities))
	copy(out, p.cities)
	return out
}

func (p *Presets) Default() (CityPreset, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.cities) == 0 {
		return CityPreset{}, false
	}
	return p.cities[0], true
}

// Lookup matches a preset by id or display name, ignoring case and surrounding space.
func (p *Presets) Lookup(key string) (CityPreset, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return CityPreset{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, city := range p.cities {
		if strings.EqualFold(city.ID, key) || strings.EqualFold(city.Name, key) {
			return city, true
		}
	}
	return CityPreset{}, false
}

// Resolve returns the named preset, or the default preset when key is empty.
func (p *Presets) Resolve(key string) (CityPreset, error) {
	if strings.TrimSpace(key) == "" {
		city, ok := p.Default()
		if !ok {
			return CityPreset{}, ErrNoPresets
		}
		return city, nil
	}
	city, ok := p.Lookup(key)
	if !ok {
		return CityPreset{}, ErrUnknownCity
	}
	return city, nil
}

func (p *Presets) Replace(cities []CityPreset) {
	next := make([]CityPreset, len(cities))
	copy(next, cities)
	p.mu.Lock()
	p.cities = next
	p.mu.Unlock()
}

// Merge overlays file entries on base: matching ids are replaced in place and
// new ids are appended in file order.
func Merge(base, overlay []CityPreset) []CityPreset {
	out := make([]CityPreset, len(base))
	copy(out, base)
	for _, city := range overlay {
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].ID, city.ID) {
				out[i] = city
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, city)
		}
	}
	return out
}
