// Package params is the host-owned parameter store read by the real-time
// path. Values are stored as atomics so a control goroutine can write while
// the audio callback takes one Snapshot per block.
package params

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-binaural/binaural"
	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/preset"
)

// ErrUnknownParameter is returned for IDs outside the layout.
var ErrUnknownParameter = errors.New("params: unknown parameter")

// ID identifies a parameter.
type ID string

// Parameter IDs.
const (
	BaseFrequency  ID = "baseFrequency"
	BinauralOffset ID = "binauralOffset"
	LeftFrequency  ID = "leftFrequency"
	RightFrequency ID = "rightFrequency"
	LeftVolume     ID = "leftVolume"
	RightVolume    ID = "rightVolume"
	MasterVolume   ID = "masterVolume"
	Mode           ID = "mode"
	Mute           ID = "mute"
)

// Positions in Layout, used on the audio path to avoid map lookups.
const (
	idxBaseFrequency = iota
	idxBinauralOffset
	idxLeftFrequency
	idxRightFrequency
	idxLeftVolume
	idxRightVolume
	idxMasterVolume
	idxMode
	idxMute
)

// Def describes one parameter's range and default. Boolean parameters use
// the range [0, 1] and are stored as 0 or 1.
type Def struct {
	ID      ID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Bool    bool
}

// Clamp limits v to the parameter range; booleans snap to 0 or 1.
func (d Def) Clamp(v float64) float64 {
	if d.Bool {
		if v > 0.5 {
			return 1
		}
		return 0
	}
	return core.Clamp(v, d.Min, d.Max)
}

// Layout is the ordered parameter layout. The order matches the idx
// constants.
var Layout = []Def{
	{ID: BaseFrequency, Name: "Base Frequency", Unit: "Hz", Min: preset.MinBaseFrequencyHz, Max: preset.MaxBaseFrequencyHz, Default: 440},
	{ID: BinauralOffset, Name: "Binaural Offset", Unit: "Hz", Min: preset.MinOffsetHz, Max: preset.MaxOffsetHz, Default: 10},
	{ID: LeftFrequency, Name: "Left Frequency", Unit: "Hz", Min: 20, Max: 20000, Default: 440},
	{ID: RightFrequency, Name: "Right Frequency", Unit: "Hz", Min: 20, Max: 20000, Default: 450},
	{ID: LeftVolume, Name: "Left Volume", Unit: "dB", Min: -60, Max: 0, Default: -6},
	{ID: RightVolume, Name: "Right Volume", Unit: "dB", Min: -60, Max: 0, Default: -6},
	{ID: MasterVolume, Name: "Master Volume", Unit: "dB", Min: -60, Max: 0, Default: 0},
	{ID: Mode, Name: "Mode", Min: 0, Max: 1, Default: 1, Bool: true},
	{ID: Mute, Name: "Mute", Min: 0, Max: 1, Default: 0, Bool: true},
}

var index = func() map[ID]int {
	m := make(map[ID]int, len(Layout))
	for i, d := range Layout {
		m[d.ID] = i
	}
	return m
}()

// Lookup returns the definition of id.
func Lookup(id ID) (Def, bool) {
	i, ok := index[id]
	if !ok {
		return Def{}, false
	}
	return Layout[i], true
}

// Store holds the current value of every parameter in Layout.
type Store struct {
	values []atomic.Uint64
}

// NewStore returns a store initialised to the layout defaults.
func NewStore() *Store {
	s := &Store{values: make([]atomic.Uint64, len(Layout))}
	s.ResetDefaults()
	return s
}

// ResetDefaults restores every parameter to its default.
func (s *Store) ResetDefaults() {
	for i, d := range Layout {
		s.values[i].Store(math.Float64bits(d.Default))
	}
}

// Set stores v for id, clamped to the parameter range. NaN is ignored.
func (s *Store) Set(id ID, v float64) error {
	i, ok := index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	if math.IsNaN(v) {
		return nil
	}
	s.values[i].Store(math.Float64bits(Layout[i].Clamp(v)))
	return nil
}

// Get returns the current value of id.
func (s *Store) Get(id ID) (float64, error) {
	i, ok := index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	return s.load(i), nil
}

// SetBool stores a boolean parameter.
func (s *Store) SetBool(id ID, b bool) error {
	v := 0.0
	if b {
		v = 1
	}
	return s.Set(id, v)
}

// SetMode stores the frequency policy.
func (s *Store) SetMode(m binaural.Mode) {
	_ = s.SetBool(Mode, m == binaural.ModeBinaural)
}

// ApplyPreset pushes preset i's base frequency and offset into the store and
// forces binaural mode. Catalog presets are validated against the same
// ranges as Layout, so the values are stored unclamped.
func (s *Store) ApplyPreset(c *preset.Catalog, i int) error {
	p, err := c.At(i)
	if err != nil {
		return err
	}
	_ = s.Set(BaseFrequency, p.BaseFrequencyHz)
	_ = s.Set(BinauralOffset, p.OffsetHz)
	s.SetMode(binaural.ModeBinaural)
	return nil
}

// Snapshot reads every parameter once.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		BaseFrequencyHz:  s.load(idxBaseFrequency),
		BinauralOffsetHz: s.load(idxBinauralOffset),
		LeftFrequencyHz:  s.load(idxLeftFrequency),
		RightFrequencyHz: s.load(idxRightFrequency),
		LeftVolumeDB:     s.load(idxLeftVolume),
		RightVolumeDB:    s.load(idxRightVolume),
		MasterVolumeDB:   s.load(idxMasterVolume),
		Mode:             binaural.ModeFromBool(s.load(idxMode) > 0.5),
		Mute:             s.load(idxMute) > 0.5,
	}
}

func (s *Store) load(i int) float64 {
	return math.Float64frombits(s.values[i].Load())
}
