// Package gain provides a linear gain stage with an optional linear ramp
// between gain changes.
package gain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-binaural/dsp/core"
)

// Option mutates gain stage construction parameters.
type Option func(*config) error

type config struct {
	gain        float64
	rampSeconds float64
}

func defaultConfig() config {
	return config{gain: 1}
}

// WithGainLinear sets the initial linear gain.
func WithGainLinear(gain float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(gain) || math.IsInf(gain, 0) {
			return fmt.Errorf("gain: gain must be finite: %f", gain)
		}

		cfg.gain = gain

		return nil
	}
}

// WithRampDuration sets the time a gain change takes to reach its target.
// Zero (the default) applies gain changes as steps.
func WithRampDuration(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("gain: ramp duration must be >= 0 and finite: %f", seconds)
		}

		cfg.rampSeconds = seconds

		return nil
	}
}

// Stage multiplies every channel of a block by the same gain curve.
type Stage struct {
	sampleRate  float64
	rampSeconds float64
	rampSamples int

	target    float64
	current   float64
	step      float64
	remaining int

	gains []float64
}

// New creates a gain stage. It must be prepared before processing.
func New(opts ...Option) (*Stage, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return newStage(cfg), nil
}

// NewUnity creates a unity gain stage with step changes. It cannot fail.
func NewUnity() *Stage {
	return newStage(defaultConfig())
}

func newStage(cfg config) *Stage {
	return &Stage{
		sampleRate:  core.DefaultProcessorConfig().SampleRate,
		rampSeconds: cfg.rampSeconds,
		target:      cfg.gain,
		current:     cfg.gain,
	}
}

// Prepare sizes the internal gain curve for blocks up to blockSize samples
// and snaps any ramp in progress to its target.
func (s *Stage) Prepare(sampleRate float64, blockSize int) {
	if sampleRate > 0 {
		s.sampleRate = sampleRate
	}
	s.rampSamples = int(math.Round(s.rampSeconds * s.sampleRate))
	s.gains = core.EnsureLen(s.gains, blockSize)
	s.Reset()
}

// Reset finishes any ramp in progress.
func (s *Stage) Reset() {
	s.current = s.target
	s.step = 0
	s.remaining = 0
}

// SetGainLinear sets the target linear gain. Non-finite values are ignored.
func (s *Stage) SetGainLinear(gain float64) {
	if math.IsNaN(gain) || math.IsInf(gain, 0) || gain == s.target {
		return
	}

	s.target = gain
	if s.rampSamples <= 0 {
		s.current = gain
		s.remaining = 0
		return
	}

	s.remaining = s.rampSamples
	s.step = (s.target - s.current) / float64(s.rampSamples)
}

// SetGainDecibels sets the target gain in dB.
func (s *Stage) SetGainDecibels(db float64) {
	s.SetGainLinear(core.DBToGain(db))
}

// GainLinear returns the target gain.
func (s *Stage) GainLinear() float64 { return s.target }

// CurrentGain returns the gain applied to the next sample.
func (s *Stage) CurrentGain() float64 { return s.current }

// IsSmoothing reports whether a ramp is in progress.
func (s *Stage) IsSmoothing() bool { return s.remaining > 0 }

// ProcessChannel applies the gain to a single channel in place.
func (s *Stage) ProcessChannel(buf []float64) {
	switch gains := s.curve(len(buf)); {
	case gains != nil:
		vecmath.MulBlockInPlace(buf, gains)
	case s.current == 0:
		core.Zero(buf)
	}
}

// Process applies the same gain curve to every channel in place. All channels
// are processed for the length of the first one.
func (s *Stage) Process(channels [][]float64) {
	if len(channels) == 0 {
		return
	}

	n := len(channels[0])
	gains := s.curve(n)

	for _, ch := range channels {
		switch {
		case gains != nil:
			vecmath.MulBlockInPlace(ch[:n], gains)
		case s.current == 0:
			core.Zero(ch[:n])
		}
	}
}

// curve advances the gain state by n samples and returns the per-sample
// gains, or nil when the gain is constant at 0 or 1 for the whole block.
func (s *Stage) curve(n int) []float64 {
	if n == 0 {
		return nil
	}

	if s.remaining == 0 && (s.current == 0 || s.current == 1) {
		return nil
	}

	s.gains = core.EnsureLen(s.gains, n)
	gains := s.gains[:n]

	if s.remaining == 0 {
		core.Fill(gains, s.current)
		return gains
	}

	for i := range gains {
		gains[i] = s.current
		if s.remaining > 0 {
			s.remaining--
			s.current += s.step
			if s.remaining == 0 {
				s.current = s.target
			}
		}
	}

	return gains
}
