package encode

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/dither"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

type wavSink struct {
	file     *os.File
	enc      *wav.Encoder
	quant    *dither.Quantizer
	buf      *audio.IntBuffer
	channels int
	wrote    bool
	closed   bool
}

func openWAV(path string, sampleRate float64, channels int, opts Options) (*wavSink, error) {
	q, err := newQuantizer(opts.BitDepth, opts)
	if err != nil {
		return nil, err
	}

	f, err := createFile(path)
	if err != nil {
		return nil, err
	}

	rate := int(sampleRate + 0.5)

	return &wavSink{
		file:  f,
		enc:   wav.NewEncoder(f, rate, opts.BitDepth, channels, wavFormatPCM),
		quant: q,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: opts.BitDepth,
		},
		channels: channels,
	}, nil
}

func (s *wavSink) Write(block *buffer.Block) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkShape(block, s.channels); err != nil {
		return err
	}

	s.buf.Data = interleave(s.buf.Data, s.quant, block)
	s.wrote = true

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("encode: write wav: %w", err)
	}
	return nil
}

func (s *wavSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if !s.wrote {
		// The encoder emits its header on first write.
		s.buf.Data = s.buf.Data[:0]
		if err := s.enc.Write(s.buf); err != nil {
			errs = append(errs, fmt.Errorf("encode: write wav header: %w", err))
		}
	}
	if err := s.enc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("encode: finalize wav: %w", err))
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("encode: close wav: %w", err))
	}
	return errors.Join(errs...)
}
