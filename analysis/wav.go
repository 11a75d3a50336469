package analysis

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrNotWAV is returned when a file is not a readable PCM WAV file.
var ErrNotWAV = errors.New("analysis: not a valid wav file")

const readFrames = 4096

// Audio is a decoded planar signal.
type Audio struct {
	Channels   [][]float64
	SampleRate float64
	BitDepth   int
}

// Frames returns the number of samples per channel.
func (a Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// ReadWAV decodes up to maxFrames frames of a PCM WAV file into planar float
// samples in [-1, 1]. maxFrames <= 0 reads the whole file.
func ReadWAV(path string, maxFrames int) (Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Audio{}, fmt.Errorf("analysis: open %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Audio{}, fmt.Errorf("%w: %s", ErrNotWAV, path)
	}

	channels := int(d.NumChans)
	bitDepth := int(d.BitDepth)
	if channels <= 0 || bitDepth <= 0 {
		return Audio{}, fmt.Errorf("%w: %s: %d channels, %d bits", ErrNotWAV, path, channels, bitDepth)
	}

	out := Audio{
		Channels:   make([][]float64, channels),
		SampleRate: float64(d.SampleRate),
		BitDepth:   bitDepth,
	}
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
		Data:   make([]int, readFrames*channels),
	}

	for maxFrames <= 0 || out.Frames() < maxFrames {
		n, err := d.PCMBuffer(buf)
		if err != nil {
			return Audio{}, fmt.Errorf("analysis: decode %s: %w", path, err)
		}
		if n == 0 {
			break
		}

		frames := n / channels
		if maxFrames > 0 && out.Frames()+frames > maxFrames {
			frames = maxFrames - out.Frames()
		}
		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				out.Channels[ch] = append(out.Channels[ch], float64(buf.Data[i*channels+ch])*scale)
			}
		}
	}

	return out, nil
}
