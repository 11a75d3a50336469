package binaural

import (
	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/dsp/gain"
	"github.com/cwbudde/algo-binaural/dsp/osc"
)

const (
	defaultBaseHz   = 440.0
	defaultOffsetHz = 10.0
	defaultLeftHz   = 440.0
	defaultRightHz  = 450.0
)

// Generator owns a left and a right oscillator and a master gain stage.
//
// The oscillator frequencies are always a pure function of
// (mode, base, offset, left, right): every frequency-related setter
// recomputes both targets before it returns.
type Generator struct {
	left   *osc.Oscillator
	right  *osc.Oscillator
	master *gain.Stage

	mode     Mode
	baseHz   float64
	offsetHz float64
	leftHz   float64
	rightHz  float64
}

// New returns a Generator in binaural mode at 440 Hz with a 10 Hz offset,
// unity gains, prepared for the default processing config.
func New() *Generator {
	master := gain.NewUnity()
	g := &Generator{
		left:     osc.New(),
		right:    osc.New(),
		master:   master,
		mode:     ModeBinaural,
		baseHz:   defaultBaseHz,
		offsetHz: defaultOffsetHz,
		leftHz:   defaultLeftHz,
		rightHz:  defaultRightHz,
	}
	cfg := core.DefaultProcessorConfig()
	g.Prepare(cfg.SampleRate, cfg.BlockSize)
	return g
}

// Prepare forwards to both oscillators and the master gain stage, then
// re-applies the frequency targets against the new Nyquist limit.
func (g *Generator) Prepare(sampleRate float64, blockSize int) {
	g.left.Prepare(sampleRate, blockSize)
	g.right.Prepare(sampleRate, blockSize)
	g.master.Prepare(sampleRate, blockSize)
	g.updateFrequencies()
}

// Reset zeroes both oscillator phases and any gain smoothing state.
func (g *Generator) Reset() {
	g.left.Reset()
	g.right.Reset()
	g.master.Reset()
}

// SetMode switches the frequency policy and recomputes both targets.
func (g *Generator) SetMode(mode Mode) {
	g.mode = mode
	g.updateFrequencies()
}

// SetBaseFrequency sets the binaural base frequency in Hz.
func (g *Generator) SetBaseFrequency(hz float64) {
	g.baseHz = hz
	g.updateFrequencies()
}

// SetBinauralOffset sets the right-channel offset in Hz, relative to the
// current base frequency.
func (g *Generator) SetBinauralOffset(hz float64) {
	g.offsetHz = hz
	g.updateFrequencies()
}

// SetLeftFrequency sets the manual-mode left frequency in Hz.
func (g *Generator) SetLeftFrequency(hz float64) {
	g.leftHz = hz
	if g.mode == ModeManual {
		g.left.SetFrequency(hz)
	}
}

// SetRightFrequency sets the manual-mode right frequency in Hz.
func (g *Generator) SetRightFrequency(hz float64) {
	g.rightHz = hz
	if g.mode == ModeManual {
		g.right.SetFrequency(hz)
	}
}

// SetLeftVolume sets the left channel linear gain (pre-mix).
func (g *Generator) SetLeftVolume(gain float64) { g.left.SetAmplitude(gain) }

// SetRightVolume sets the right channel linear gain (pre-mix).
func (g *Generator) SetRightVolume(gain float64) { g.right.SetAmplitude(gain) }

// SetMasterVolume sets the linear gain applied to the mixed stereo block.
func (g *Generator) SetMasterVolume(gain float64) { g.master.SetGainLinear(gain) }

// Process renders the next block. Blocks with fewer than two channels are
// left untouched. Channel 0 receives the left oscillator, channel 1 the right
// one, and the master gain is applied to all channels last. Channels beyond
// the second are silent.
func (g *Generator) Process(block *buffer.Block) {
	if block == nil || block.NumChannels() < 2 {
		return
	}

	block.Clear()

	g.left.Process(block.Channel(0))
	g.right.Process(block.Channel(1))

	g.master.Process(block.Channels())
}

// Mode returns the current frequency policy.
func (g *Generator) Mode() Mode { return g.mode }

// BaseFrequency returns the stored base frequency in Hz.
func (g *Generator) BaseFrequency() float64 { return g.baseHz }

// BinauralOffset returns the stored offset in Hz.
func (g *Generator) BinauralOffset() float64 { return g.offsetHz }

// LeftFrequency returns the frequency the left oscillator is running at.
func (g *Generator) LeftFrequency() float64 { return g.left.Frequency() }

// RightFrequency returns the frequency the right oscillator is running at.
func (g *Generator) RightFrequency() float64 { return g.right.Frequency() }

// LeftVolume returns the left channel linear gain.
func (g *Generator) LeftVolume() float64 { return g.left.Amplitude() }

// RightVolume returns the right channel linear gain.
func (g *Generator) RightVolume() float64 { return g.right.Amplitude() }

// MasterVolume returns the master linear gain.
func (g *Generator) MasterVolume() float64 { return g.master.GainLinear() }

// SampleRate returns the prepared sample rate in Hz.
func (g *Generator) SampleRate() float64 { return g.left.SampleRate() }

func (g *Generator) updateFrequencies() {
	if g.mode == ModeBinaural {
		g.left.SetFrequency(g.baseHz)
		g.right.SetFrequency(g.baseHz + g.offsetHz)
		return
	}
	g.left.SetFrequency(g.leftHz)
	g.right.SetFrequency(g.rightHz)
}
