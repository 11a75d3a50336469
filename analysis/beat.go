package analysis

import (
	"fmt"
	"math"
)

// BeatReport describes the per-channel fundamentals of a stereo signal and
// the binaural beat between them.
type BeatReport struct {
	LeftHz  float64
	RightHz float64
	BeatHz  float64
	BinHz   float64
}

// Beat analyzes a left/right channel pair.
func Beat(left, right []float64, sampleRate float64, opts ...Option) (BeatReport, error) {
	ls, err := PowerSpectrum(left, sampleRate, opts...)
	if err != nil {
		return BeatReport{}, fmt.Errorf("left channel: %w", err)
	}
	rs, err := PowerSpectrum(right, sampleRate, opts...)
	if err != nil {
		return BeatReport{}, fmt.Errorf("right channel: %w", err)
	}

	l := ls.PeakFrequency()
	r := rs.PeakFrequency()

	return BeatReport{
		LeftHz:  l,
		RightHz: r,
		BeatHz:  math.Abs(r - l),
		BinHz:   ls.BinHz(),
	}, nil
}
