package osc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-binaural/analysis"
	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func TestProcessMatchesReferenceSine(t *testing.T) {
	o := New()
	o.Prepare(48000, 64)
	o.SetFrequency(1000)
	o.SetAmplitude(0.5)

	got := make([]float64, 64)
	o.Process(got)

	// Phase is advanced before each sample, so output starts one step in.
	want := testutil.DeterministicSine(1000, 48000, 0.5, 65)[1:]
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestProcessOverwritesBuffer(t *testing.T) {
	o := New()
	o.Prepare(48000, 16)
	o.SetAmplitude(0)

	buf := testutil.Ones(16)
	o.Process(buf)
	testutil.RequireSilent(t, buf)
}

func TestFundamentalMatchesFrequency(t *testing.T) {
	const sampleRate = 44100.0
	for _, hz := range []float64{20, 200, 440, 1000, 10000, sampleRate / 2 * 0.9} {
		o := New()
		o.Prepare(sampleRate, 512)
		o.SetFrequency(hz)

		buf := make([]float64, 16384)
		for off := 0; off < len(buf); off += 512 {
			o.Process(buf[off : off+512])
		}

		spec, err := analysis.PowerSpectrum(buf, sampleRate)
		if err != nil {
			t.Fatalf("PowerSpectrum() error = %v", err)
		}
		if got := spec.PeakFrequency(); math.Abs(got-hz) > spec.BinHz() {
			t.Fatalf("hz=%v: fundamental %v not within one bin (%v)", hz, got, spec.BinHz())
		}
	}
}

func TestSetFrequencyRejectsOutOfRange(t *testing.T) {
	o := New()
	o.Prepare(48000, 64)
	o.SetFrequency(1234)

	for _, hz := range []float64{0, -1, 24000.001, 48000, math.Inf(1), math.NaN()} {
		o.SetFrequency(hz)
		if o.Frequency() != 1234 {
			t.Fatalf("SetFrequency(%v) changed frequency to %v", hz, o.Frequency())
		}
	}

	o.SetFrequency(24000)
	if o.Frequency() != 24000 {
		t.Fatalf("Nyquist should be accepted, got %v", o.Frequency())
	}
}

func TestPhaseContinuityAcrossFrequencySwitch(t *testing.T) {
	const sampleRate = 48000.0
	tests := []struct{ f1, f2 float64 }{
		{440, 880},
		{880, 440},
		{1000, 1003},
		{5000, 100},
	}

	for _, tt := range tests {
		o := New()
		o.Prepare(sampleRate, 512)
		o.SetFrequency(tt.f1)

		first := make([]float64, 777)
		o.Process(first)

		o.SetFrequency(tt.f2)
		second := make([]float64, 512)
		o.Process(second)

		jump := math.Abs(second[0] - first[len(first)-1])
		limit := testutil.MaxSineStep(tt.f2, sampleRate, 1)
		if jump > limit+1e-12 {
			t.Fatalf("%v->%v Hz: jump %v exceeds %v", tt.f1, tt.f2, jump, limit)
		}
		if step := testutil.MaxStep(second); step > limit+1e-12 {
			t.Fatalf("%v->%v Hz: step %v exceeds %v", tt.f1, tt.f2, step, limit)
		}
	}
}

func TestBlockSplitMatchesSingleBlock(t *testing.T) {
	a := New()
	b := New()
	a.Prepare(44100, 1024)
	b.Prepare(44100, 1024)
	a.SetFrequency(333)
	b.SetFrequency(333)

	whole := make([]float64, 1000)
	a.Process(whole)

	split := make([]float64, 1000)
	for _, r := range [][2]int{{0, 1}, {1, 300}, {300, 301}, {301, 1000}} {
		b.Process(split[r[0]:r[1]])
	}

	testutil.RequireSliceNearlyEqual(t, split, whole, 1e-12)
}

func TestResetRestartsPhaseKeepsSettings(t *testing.T) {
	o := New()
	o.Prepare(48000, 128)
	o.SetFrequency(700)
	o.SetAmplitude(0.3)

	first := make([]float64, 128)
	o.Process(first)
	o.Reset()

	if o.Phase() != 0 {
		t.Fatalf("Phase() = %v after Reset, want 0", o.Phase())
	}
	if o.Frequency() != 700 || o.Amplitude() != 0.3 {
		t.Fatalf("Reset changed settings: f=%v a=%v", o.Frequency(), o.Amplitude())
	}

	second := make([]float64, 128)
	o.Process(second)
	testutil.RequireSliceNearlyEqual(t, second, first, 1e-12)
}

func TestPhaseStaysWrapped(t *testing.T) {
	o := New()
	o.Prepare(8000, 4000)
	o.SetFrequency(4000)

	buf := make([]float64, 4000)
	for i := 0; i < 100; i++ {
		o.Process(buf)
		if p := o.Phase(); p < 0 || p >= 2*math.Pi {
			t.Fatalf("phase %v escaped [0, 2π)", p)
		}
	}
	testutil.RequireFinite(t, buf)
}

func TestPrepareClampsFrequencyToNewNyquist(t *testing.T) {
	o := New()
	o.Prepare(48000, 64)
	o.SetFrequency(20000)
	o.Prepare(22050, 64)
	if o.Frequency() != 11025 {
		t.Fatalf("Frequency() = %v, want 11025", o.Frequency())
	}
}

func TestNegativeAmplitudeInvertsSignal(t *testing.T) {
	pos := New()
	neg := New()
	pos.Prepare(48000, 64)
	neg.Prepare(48000, 64)
	neg.SetAmplitude(-1)

	a := make([]float64, 64)
	b := make([]float64, 64)
	pos.Process(a)
	neg.Process(b)

	for i := range a {
		if a[i] != -b[i] {
			t.Fatalf("sample %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	o := New()
	o.Prepare(48000, 512)
	o.SetAmplitude(0.5)
	buf := make([]float64, 512)

	allocs := testing.AllocsPerRun(100, func() {
		o.Process(buf)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}
