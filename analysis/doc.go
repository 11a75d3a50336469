// Package analysis measures rendered binaural material: the dominant
// frequency of each channel from a Hann-windowed FFT, the resulting beat
// frequency, and a WAV reader that feeds both from exported files.
package analysis
