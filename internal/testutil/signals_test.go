package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestMaxStepBoundedBySineStep(t *testing.T) {
	s := DeterministicSine(440, 44100, 0.8, 4410)
	got := MaxStep(s)
	limit := MaxSineStep(440, 44100, 0.8)
	if got > limit+1e-12 {
		t.Fatalf("MaxStep = %v exceeds analytic limit %v", got, limit)
	}
	if got < 0.99*limit {
		t.Fatalf("MaxStep = %v, want close to %v", got, limit)
	}
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
