// Package window generates cosine-sum analysis windows.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeFlatTop
)

// Cosine-sum coefficients a0, -a1, a2, ... evaluated as sum(c[k] * cos(2*pi*k*x)).
var coeffsByType = map[Type][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, -0.5},
	TypeHamming:             {0.54, -0.46},
	TypeBlackman:            {0.42, -0.5, 0.08},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
	TypeFlatTop:             {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

var names = map[Type]string{
	TypeRectangular:         "rectangular",
	TypeHann:                "hann",
	TypeHamming:             "hamming",
	TypeBlackman:            "blackman",
	TypeBlackmanHarris4Term: "blackman-harris",
	TypeFlatTop:             "flat-top",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known window.
func (t Type) Valid() bool {
	_, ok := coeffsByType[t]
	return ok
}

// ParseType parses a window name as printed by String.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, n := range names {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("window: unknown type %q", s)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the periodic (DFT-even) form instead of the
// symmetric one.
func WithPeriodic() Option {
	return func(c *config) { c.periodic = true }
}

// Generate returns length coefficients of window t. Unknown types and
// non-positive lengths return nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	coeffs, ok := coeffsByType[t]
	if !ok || length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = cosineSum(samplePosition(i, length, cfg.periodic), coeffs)
	}
	return out
}

// Apply multiplies buf in place by window t.
func Apply(t Type, buf []float64, opts ...Option) {
	coeffs := Generate(t, len(buf), opts...)
	if len(coeffs) != len(buf) {
		return
	}
	vecmath.MulBlockInPlace(buf, coeffs)
}

// CoherentGain returns the mean of the coefficients, the amplitude factor a
// window applies to a bin-centred sinusoid.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range coeffs {
		sum += v
	}
	return sum / float64(len(coeffs))
}

func cosineSum(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x
	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}
	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}
	return float64(n) / den
}
