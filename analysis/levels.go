package analysis

import "math"

// Levels holds time-domain level statistics of one channel.
type Levels struct {
	Peak          float64 // max |x|
	PeakDB        float64
	RMS           float64
	RMSDB         float64
	DC            float64 // mean
	CrestFactorDB float64 // peak / RMS
}

// ampToDB converts an amplitude to dB, returning -Inf for zero.
func ampToDB(v float64) float64 {
	v = math.Abs(v)
	if v == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

// MeasureLevels computes peak, RMS, DC and crest factor in one pass.
// An empty signal reports -Inf for every dB field.
func MeasureLevels(signal []float64) Levels {
	if len(signal) == 0 {
		return Levels{
			PeakDB:        math.Inf(-1),
			RMSDB:         math.Inf(-1),
			CrestFactorDB: math.Inf(-1),
		}
	}

	var peak, sum, energy float64
	for _, v := range signal {
		peak = math.Max(peak, math.Abs(v))
		sum += v
		energy += v * v
	}

	n := float64(len(signal))
	rms := math.Sqrt(energy / n)

	l := Levels{
		Peak:          peak,
		PeakDB:        ampToDB(peak),
		RMS:           rms,
		RMSDB:         ampToDB(rms),
		DC:            sum / n,
		CrestFactorDB: math.Inf(-1),
	}
	if rms > 0 {
		l.CrestFactorDB = ampToDB(peak / rms)
	}
	return l
}
