// Package render drives a private binaural generator through a file sink to
// produce a finite export.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cwbudde/algo-binaural/binaural"
	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/core"
	"github.com/cwbudde/algo-binaural/encode"
	"github.com/cwbudde/algo-binaural/preset"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidPreset is returned when the preset index is outside the catalog.
	ErrInvalidPreset = errors.New("render: invalid preset")
	// ErrInvalidRequest is returned for a malformed render request.
	ErrInvalidRequest = errors.New("render: invalid request")
	// ErrWrite is returned when the sink rejects a block. The partial file is
	// left in place.
	ErrWrite = errors.New("render: write failed")
	// ErrCancelled is returned when the context is done before the render
	// completes.
	ErrCancelled = errors.New("render: cancelled")
)

const (
	defaultChunkSize = 512
	stereo           = 2
)

// Levels holds linear output gains for an export.
type Levels struct {
	Left   float64
	Right  float64
	Master float64
}

// DefaultLevels matches the live parameter defaults: -6 dB per channel and
// 0 dB master.
func DefaultLevels() Levels {
	return Levels{
		Left:   core.DBToGain(-6),
		Right:  core.DBToGain(-6),
		Master: 1,
	}
}

// Request describes one export.
type Request struct {
	PresetIndex     int
	DurationSeconds float64
	SampleRate      float64
	Channels        int
	Encoding        encode.Options
	// Levels defaults to DefaultLevels when nil.
	Levels *Levels
}

// TotalSamples is the number of samples per channel the request renders.
func (r Request) TotalSamples() int64 {
	return int64(math.Round(r.SampleRate * r.DurationSeconds))
}

// Result summarizes a render.
type Result struct {
	// Opened reports whether the sink was created, and so whether a file
	// may exist at the target path.
	Opened         bool
	TotalSamples   int64
	SamplesWritten int64
	Chunks         int
}

// ProgressFunc receives the completed fraction in [0, 1] after each chunk.
type ProgressFunc func(fraction float64)

// Option configures a [Renderer].
type Option func(*Renderer) error

// WithChunkSize sets the number of samples per channel per sink write.
func WithChunkSize(n int) Option {
	return func(r *Renderer) error {
		if n <= 0 {
			return fmt.Errorf("render: chunk size must be > 0: %d", n)
		}
		r.chunkSize = n
		return nil
	}
}

// WithOpener replaces the sink factory.
func WithOpener(open encode.Opener) Option {
	return func(r *Renderer) error {
		if open == nil {
			return fmt.Errorf("render: opener must not be nil")
		}
		r.open = open
		return nil
	}
}

// WithLogger sets the logger for render lifecycle messages.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Renderer) error {
		if log != nil {
			r.log = log
		}
		return nil
	}
}

// Renderer produces files from presets. It is safe for concurrent use; each
// Render call owns its generator and scratch block.
type Renderer struct {
	catalog   *preset.Catalog
	chunkSize int
	open      encode.Opener
	log       logrus.FieldLogger
	pool      *buffer.Pool
}

// New creates a Renderer over catalog.
func New(catalog *preset.Catalog, opts ...Option) (*Renderer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("render: catalog must not be nil")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Renderer{
		catalog:   catalog,
		chunkSize: defaultChunkSize,
		open:      encode.Open,
		log:       discard,
		pool:      buffer.NewPool(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ChunkSize returns the configured chunk size.
func (r *Renderer) ChunkSize() int { return r.chunkSize }

// Catalog returns the preset catalog.
func (r *Renderer) Catalog() *preset.Catalog { return r.catalog }

// maxSamples is 2^63, the first length that does not fit the int64 counter.
const maxSamples = float64(math.MaxInt64)

// Validate checks req against the catalog without touching the filesystem.
func (r *Renderer) Validate(req Request) error {
	if req.PresetIndex < 0 || req.PresetIndex >= r.catalog.Len() {
		return fmt.Errorf("%w: index %d, catalog has %d presets", ErrInvalidPreset, req.PresetIndex, r.catalog.Len())
	}
	if !(req.SampleRate > 0) || math.IsInf(req.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidRequest, req.SampleRate)
	}
	if !(req.DurationSeconds >= 0) || math.IsInf(req.DurationSeconds, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidRequest, req.DurationSeconds)
	}
	if math.Round(req.SampleRate*req.DurationSeconds) >= maxSamples {
		return fmt.Errorf("%w: %v s at %v Hz exceeds the sample counter", ErrInvalidRequest, req.DurationSeconds, req.SampleRate)
	}
	if req.Channels != stereo {
		return fmt.Errorf("%w: channels must be %d, got %d", ErrInvalidRequest, stereo, req.Channels)
	}
	if err := req.Encoding.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// Render writes req to path. It blocks until the render completes, fails or
// ctx is done. Cancellation is observed before every chunk.
func (r *Renderer) Render(ctx context.Context, path string, req Request, progress ProgressFunc) (Result, error) {
	if err := r.Validate(req); err != nil {
		return Result{}, err
	}
	p, err := r.catalog.At(req.PresetIndex)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}

	if progress == nil {
		progress = func(float64) {}
	}

	total := req.TotalSamples()
	res := Result{TotalSamples: total}
	log := r.log.WithFields(logrus.Fields{
		"preset":      p.Name,
		"format":      req.Encoding.Format.String(),
		"sample_rate": req.SampleRate,
		"duration":    req.DurationSeconds,
		"samples":     total,
		"path":        path,
	})

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	gen := r.generator(p, req)

	sink, err := r.open(path, req.SampleRate, req.Channels, req.Encoding)
	if err != nil {
		return res, err
	}
	res.Opened = true

	log.Info("render started")
	start := time.Now()

	res, err = r.run(ctx, gen, sink, res, req.Channels, progress)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: close: %w", ErrWrite, cerr)
	}

	if err != nil {
		log.WithError(err).WithField("written", res.SamplesWritten).Warn("render stopped")
		return res, err
	}

	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("render finished")
	return res, nil
}

func (r *Renderer) generator(p preset.Preset, req Request) *binaural.Generator {
	levels := DefaultLevels()
	if req.Levels != nil {
		levels = *req.Levels
	}

	gen := binaural.New()
	gen.Prepare(req.SampleRate, r.chunkSize)
	gen.SetMode(binaural.ModeBinaural)
	gen.SetBaseFrequency(p.BaseFrequencyHz)
	gen.SetBinauralOffset(p.OffsetHz)
	gen.SetLeftVolume(levels.Left)
	gen.SetRightVolume(levels.Right)
	gen.SetMasterVolume(levels.Master)

	return gen
}

func (r *Renderer) run(ctx context.Context, gen *binaural.Generator, sink encode.Sink, res Result, channels int, progress ProgressFunc) (Result, error) {
	block := r.pool.Get(channels, r.chunkSize)
	defer r.pool.Put(block)

	if res.TotalSamples == 0 {
		block.Resize(0)
		if err := sink.Write(block); err != nil {
			return res, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		res.Chunks = 1
		progress(1)
		return res, nil
	}

	for res.SamplesWritten < res.TotalSamples {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		n := int(min(int64(r.chunkSize), res.TotalSamples-res.SamplesWritten))
		block.Resize(n)
		block.Clear()
		gen.Process(block)

		if err := sink.Write(block); err != nil {
			return res, fmt.Errorf("%w: after %d samples: %w", ErrWrite, res.SamplesWritten, err)
		}

		res.SamplesWritten += int64(n)
		res.Chunks++
		progress(float64(res.SamplesWritten) / float64(res.TotalSamples))
	}

	return res, nil
}
