package params

import (
	"github.com/cwbudde/algo-binaural/binaural"
	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Snapshot is a block-local copy of every parameter value.
type Snapshot struct {
	BaseFrequencyHz  float64
	BinauralOffsetHz float64
	LeftFrequencyHz  float64
	RightFrequencyHz float64
	LeftVolumeDB     float64
	RightVolumeDB    float64
	MasterVolumeDB   float64
	Mode             binaural.Mode
	Mute             bool
}

// Levels returns the left, right and master volumes as linear gains.
func (s Snapshot) Levels() (left, right, master float64) {
	return core.DBToGain(s.LeftVolumeDB), core.DBToGain(s.RightVolumeDB), core.DBToGain(s.MasterVolumeDB)
}

// Apply pushes the snapshot into g. Mute is not applied here; callers skip
// the generator entirely when muted.
func (s Snapshot) Apply(g *binaural.Generator) {
	left, right, master := s.Levels()

	g.SetBaseFrequency(s.BaseFrequencyHz)
	g.SetBinauralOffset(s.BinauralOffsetHz)
	g.SetLeftFrequency(s.LeftFrequencyHz)
	g.SetRightFrequency(s.RightFrequencyHz)
	g.SetLeftVolume(left)
	g.SetRightVolume(right)
	g.SetMasterVolume(master)
	g.SetMode(s.Mode)
}
