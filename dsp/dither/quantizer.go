package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer maps samples in [-1, 1] to integers in the signed range of its
// bit depth.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	limit           bool
	rng             *rand.Rand

	scale   float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a Quantizer. The default configuration is 16-bit,
// triangular dither of 1 LSB, limiting enabled.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        cfg.bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		limit:           cfg.limit,
		rng:             cfg.rng,
	}

	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	full := math.Exp2(float64(q.bitDepth - 1))
	q.scale = full - 1
	q.limitLo = -int(full)
	q.limitHi = int(full) - 1

	return q, nil
}

// ProcessInteger quantizes one sample.
func (q *Quantizer) ProcessInteger(input float64) int {
	scaled := q.scale * input
	if math.IsNaN(scaled) {
		scaled = 0
	}

	result := int(math.Round(scaled + q.noise()))

	if q.limit {
		result = max(q.limitLo, min(q.limitHi, result))
	}

	return result
}

// ProcessInto quantizes src into dst and returns the number of samples written.
func (q *Quantizer) ProcessInto(dst []int, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = q.ProcessInteger(src[i])
	}
	return n
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.ditherAmplitude * (q.rng.Float64()*2 - 1)
	case DitherTriangular:
		return q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// Limits returns the smallest and largest representable integers.
func (q *Quantizer) Limits() (lo, hi int) { return q.limitLo, q.limitHi }
