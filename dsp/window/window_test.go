package window

import (
	"math"
	"testing"
)

func TestGenerateHannSymmetric(t *testing.T) {
	w := Generate(TypeHann, 5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestGeneratePeriodic(t *testing.T) {
	w := Generate(TypeHann, 4, WithPeriodic())
	want := []float64{0, 0.5, 1, 0.5}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestGenerateInvalid(t *testing.T) {
	if Generate(Type(99), 8) != nil {
		t.Fatal("unknown type should return nil")
	}
	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should return nil")
	}
	if w := Generate(TypeBlackman, 1); len(w) != 1 {
		t.Fatalf("length-1 window = %v", w)
	}
}

func TestCoherentGain(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeRectangular, 1},
		{TypeHann, 0.5},
		{TypeHamming, 0.54},
		{TypeBlackmanHarris4Term, 0.35875},
	}
	for _, tt := range tests {
		got := CoherentGain(Generate(tt.typ, 4096, WithPeriodic()))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%v: CoherentGain = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)
	if buf[0] != 0 || math.Abs(buf[2]-2) > 1e-12 {
		t.Fatalf("Apply() = %v", buf)
	}
}

func TestParseType(t *testing.T) {
	for typ := range names {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unsupported window")
	}
	if Type(42).Valid() {
		t.Fatal("Type(42) should be invalid")
	}
}
