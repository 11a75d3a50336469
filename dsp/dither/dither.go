// Package dither converts floating-point samples in [-1, 1] to signed
// integer PCM at a chosen bit depth, with optional dither noise and limiting.
package dither

import "fmt"

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone rounds without adding noise.
	DitherNone DitherType = iota
	// DitherRectangular adds uniform noise of ±amplitude LSB.
	DitherRectangular
	// DitherTriangular adds triangular (TPDF) noise of ±amplitude LSB.
	DitherTriangular
)

var ditherTypeNames = [...]string{"none", "rectangular", "triangular"}

// String implements fmt.Stringer.
func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= DitherNone && dt <= DitherTriangular
}
