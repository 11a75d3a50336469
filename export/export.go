// Package export runs renders in the background with progress reporting,
// cancellation and cleanup of partial files.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/algo-binaural/encode"
	"github.com/cwbudde/algo-binaural/render"
	"github.com/sirupsen/logrus"
)

// Option configures a [Job].
type Option func(*config)

type config struct {
	removePartial bool
	progress      render.ProgressFunc
	log           logrus.FieldLogger
}

// WithRemovePartial deletes the output file when the render fails or is
// cancelled after the file was created.
func WithRemovePartial(enabled bool) Option {
	return func(c *config) { c.removePartial = enabled }
}

// WithProgress registers a callback invoked from the render goroutine after
// every chunk.
func WithProgress(fn render.ProgressFunc) Option {
	return func(c *config) { c.progress = fn }
}

// WithLogger sets the logger for job lifecycle messages.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// Job is a render running on its own goroutine.
type Job struct {
	path     string
	cancel   context.CancelFunc
	done     chan struct{}
	progress atomic.Uint64

	// Written before done is closed.
	result render.Result
	err    error
}

// Start validates req, then renders it to path on a new goroutine. Validation
// errors are returned synchronously and no goroutine is started.
func Start(ctx context.Context, r *render.Renderer, path string, req render.Request, opts ...Option) (*Job, error) {
	if r == nil {
		return nil, fmt.Errorf("export: renderer must not be nil")
	}
	if err := r.Validate(req); err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)
	cfg := config{log: discard}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		path:   path,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go j.run(ctx, r, req, cfg)

	return j, nil
}

func (j *Job) run(ctx context.Context, r *render.Renderer, req render.Request, cfg config) {
	defer close(j.done)
	defer j.cancel()

	log := cfg.log.WithField("path", j.path)

	res, err := r.Render(ctx, j.path, req, func(f float64) {
		j.progress.Store(math.Float64bits(f))
		if cfg.progress != nil {
			cfg.progress(f)
		}
	})

	if err != nil && cfg.removePartial && res.Opened {
		if rerr := os.Remove(j.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.WithError(rerr).Warn("could not remove partial export")
		} else {
			log.Debug("removed partial export")
		}
	}

	switch {
	case errors.Is(err, render.ErrCancelled):
		log.Info("export cancelled")
	case err != nil:
		log.WithError(err).Error("export failed")
	default:
		log.WithField("samples", res.SamplesWritten).Info("export complete")
	}

	j.result, j.err = res, err
}

// Path returns the output path.
func (j *Job) Path() string { return j.path }

// Progress returns the completed fraction in [0, 1].
func (j *Job) Progress() float64 {
	return math.Float64frombits(j.progress.Load())
}

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests cancellation. The render stops before its next chunk.
func (j *Job) Cancel() { j.cancel() }

// Wait blocks until the job finishes and returns its outcome.
func (j *Job) Wait() (render.Result, error) {
	<-j.done
	return j.result, j.err
}

// EnsureExtension gives path the format's extension, replacing any other
// extension. A matching extension is kept as is (case-insensitive).
func EnsureExtension(path string, f encode.Format) string {
	ext := f.Extension()
	current := filepath.Ext(path)
	if ext == "" || strings.EqualFold(current, ext) {
		return path
	}
	return strings.TrimSuffix(path, current) + ext
}
