package encode

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/dither"
)

var (
	// ErrEncoderUnavailable is returned when the external encoder a format
	// needs cannot be found.
	ErrEncoderUnavailable = errors.New("encode: encoder unavailable")
	// ErrOpen is returned when the output file cannot be created.
	ErrOpen = errors.New("encode: cannot open output")
	// ErrInvalidOptions is returned for unsupported format options.
	ErrInvalidOptions = errors.New("encode: invalid options")
	// ErrClosed is returned when writing to a closed sink.
	ErrClosed = errors.New("encode: sink closed")
)

const (
	DefaultBitDepth    = 24
	DefaultBitrateKbps = 192
)

// Sink consumes planar blocks in order. Write may be called with a
// zero-length block. Close finalizes the file and must always be called.
type Sink interface {
	Write(block *buffer.Block) error
	Close() error
}

// Opener creates a Sink. [Open] is the production implementation.
type Opener func(path string, sampleRate float64, channels int, opts Options) (Sink, error)

// Options selects the container and its encoding parameters.
type Options struct {
	Format Format
	// BitDepth is the WAV sample depth, 16 or 24. Zero means DefaultBitDepth.
	BitDepth int
	// BitrateKbps is the MP3 constant bitrate. Zero means DefaultBitrateKbps.
	BitrateKbps int
	// LAMEPath overrides the LAME binary lookup for MP3.
	LAMEPath string
	// NoDither disables TPDF dither during quantization.
	NoDither bool
	// Seed makes dither noise reproducible when non-zero.
	Seed uint64
}

func (o Options) withDefaults() Options {
	if o.BitDepth == 0 {
		o.BitDepth = DefaultBitDepth
	}
	if o.BitrateKbps == 0 {
		o.BitrateKbps = DefaultBitrateKbps
	}
	return o
}

// Validate checks the options for their format.
func (o Options) Validate() error {
	o = o.withDefaults()

	switch o.Format {
	case FormatWAV:
		if !ValidBitDepth(o.BitDepth) {
			return fmt.Errorf("%w: wav bit depth %d", ErrInvalidOptions, o.BitDepth)
		}
	case FormatMP3:
		if !ValidBitrate(o.BitrateKbps) {
			return fmt.Errorf("%w: mp3 bitrate %d kbps", ErrInvalidOptions, o.BitrateKbps)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidOptions, o.Format)
	}

	return nil
}

// Open creates the file at path and returns a Sink writing opts.Format.
func Open(path string, sampleRate float64, channels int, opts Options) (Sink, error) {
	opts = opts.withDefaults()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !(sampleRate > 0) || channels <= 0 {
		return nil, fmt.Errorf("%w: sample rate %v, %d channels", ErrInvalidOptions, sampleRate, channels)
	}

	switch opts.Format {
	case FormatMP3:
		return openMP3(path, sampleRate, channels, opts)
	default:
		return openWAV(path, sampleRate, channels, opts)
	}
}

func newQuantizer(bits int, opts Options) (*dither.Quantizer, error) {
	qopts := []dither.Option{dither.WithBitDepth(bits)}
	if opts.NoDither {
		qopts = append(qopts, dither.WithDitherType(dither.DitherNone))
	}
	if opts.Seed != 0 {
		qopts = append(qopts, dither.WithRNG(rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))))
	}
	return dither.NewQuantizer(qopts...)
}

// createFile truncates or creates path, mapping failures to ErrOpen.
func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return f, nil
}

// interleave quantizes block into dst as frame-major integers.
func interleave(dst []int, q *dither.Quantizer, block *buffer.Block) []int {
	channels := block.NumChannels()
	n := block.Len() * channels
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]

	for ch := 0; ch < channels; ch++ {
		src := block.Channel(ch)
		for i, v := range src {
			dst[i*channels+ch] = q.ProcessInteger(v)
		}
	}

	return dst
}

func checkShape(block *buffer.Block, channels int) error {
	if block == nil {
		return fmt.Errorf("encode: nil block")
	}
	if block.NumChannels() != channels {
		return fmt.Errorf("encode: block has %d channels, sink expects %d", block.NumChannels(), channels)
	}
	return nil
}
