package encode

import (
	"fmt"
	"slices"
	"strings"
)

// Format identifies an output container.
type Format int

const (
	// FormatWAV is uncompressed PCM in a RIFF/WAVE container.
	FormatWAV Format = iota
	// FormatMP3 is constant-bitrate MPEG-1 Layer III.
	FormatMP3
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatWAV || f == FormatMP3
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	if !f.Valid() {
		return ""
	}
	return "." + f.String()
}

// ParseFormat parses "wav" or "mp3" (case-insensitive, optional leading dot).
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "wav", "wave":
		return FormatWAV, nil
	case "mp3":
		return FormatMP3, nil
	default:
		return 0, fmt.Errorf("encode: unknown format %q", s)
	}
}

// Bitrates lists the supported MP3 bitrates in kbps.
var Bitrates = []int{128, 192, 256, 320}

// ValidBitrate reports whether kbps is a supported MP3 bitrate.
func ValidBitrate(kbps int) bool {
	return slices.Contains(Bitrates, kbps)
}

// ValidBitDepth reports whether bits is a supported WAV bit depth.
func ValidBitDepth(bits int) bool {
	return bits == 16 || bits == 24
}
