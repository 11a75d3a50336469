// Package preset holds the read-only catalog of named binaural presets.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrIndexOutOfRange is returned when a preset index is outside the catalog.
var ErrIndexOutOfRange = errors.New("preset: index out of range")

// Ranges a preset must fall in. They match the live parameter ranges so a
// preset renders the same whether it is exported or played.
const (
	MinBaseFrequencyHz = 20.0
	MaxBaseFrequencyHz = 20000.0
	MinOffsetHz        = 0.0
	MaxOffsetHz        = 100.0
)

// Preset is a named base frequency and binaural offset.
type Preset struct {
	Name            string  `json:"name"`
	BaseFrequencyHz float64 `json:"base_frequency_hz"`
	OffsetHz        float64 `json:"offset_hz"`
	Description     string  `json:"description"`
}

// Validate checks that the preset can drive a generator.
func (p Preset) Validate() error {
	if p.Name == "" {
		return errors.New("preset: name must not be empty")
	}
	if !(p.BaseFrequencyHz >= MinBaseFrequencyHz && p.BaseFrequencyHz <= MaxBaseFrequencyHz) {
		return fmt.Errorf("preset %q: base frequency must be in [%g, %g] Hz: %f",
			p.Name, MinBaseFrequencyHz, MaxBaseFrequencyHz, p.BaseFrequencyHz)
	}
	if !(p.OffsetHz >= MinOffsetHz && p.OffsetHz <= MaxOffsetHz) {
		return fmt.Errorf("preset %q: offset must be in [%g, %g] Hz: %f",
			p.Name, MinOffsetHz, MaxOffsetHz, p.OffsetHz)
	}
	return nil
}

// Catalog is an ordered, immutable list of presets. It is safe for
// concurrent use.
type Catalog struct {
	presets []Preset
}

var builtin = []Preset{
	{Name: "Delta", BaseFrequencyHz: 200, OffsetHz: 2, Description: "Deep Sleep (0.5-4 Hz)"},
	{Name: "Theta", BaseFrequencyHz: 200, OffsetHz: 6, Description: "Deep Meditation (4-8 Hz)"},
	{Name: "Alpha", BaseFrequencyHz: 200, OffsetHz: 10, Description: "Relaxation (8-13 Hz)"},
	{Name: "Beta", BaseFrequencyHz: 200, OffsetHz: 20, Description: "Concentration (13-30 Hz)"},
	{Name: "Gamma", BaseFrequencyHz: 200, OffsetHz: 40, Description: "Hyperactivity (30-100 Hz)"},
}

var defaultCatalog = &Catalog{presets: builtin}

// Default returns the built-in catalog: Delta, Theta, Alpha, Beta, Gamma.
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog from presets, validating each one. The slice is copied.
func New(presets []Preset) (*Catalog, error) {
	if len(presets) == 0 {
		return nil, errors.New("preset: catalog must not be empty")
	}
	out := make([]Preset, len(presets))
	for i, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		out[i] = p
	}
	return &Catalog{presets: out}, nil
}

// LoadJSON reads a catalog from a JSON array of presets.
func LoadJSON(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}
	return New(presets)
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}

// At returns the preset at index i.
func (c *Catalog) At(i int) (Preset, error) {
	if i < 0 || i >= len(c.presets) {
		return Preset{}, fmt.Errorf("%w: %d (catalog has %d)", ErrIndexOutOfRange, i, len(c.presets))
	}
	return c.presets[i], nil
}

// All returns a copy of every preset in order.
func (c *Catalog) All() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	return out
}

// Find returns the index of the preset with the given name, ignoring case.
func (c *Catalog) Find(name string) (int, bool) {
	for i, p := range c.presets {
		if strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return -1, false
}
