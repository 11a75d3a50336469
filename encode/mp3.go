package encode

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/dsp/dither"
)

const (
	mp3Title  = "Binaural Generator Export"
	mp3Artist = "Binaural Generator"
)

type mp3Sink struct {
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	w        *bufio.Writer
	stderr   bytes.Buffer
	quant    *dither.Quantizer
	ints     []int
	frame    []byte
	channels int
	closed   bool
}

// lameArgs builds the command line for raw signed 16-bit little-endian input
// read from stdin.
func lameArgs(path string, sampleRate float64, channels, kbps int) []string {
	mode := "s"
	if channels == 1 {
		mode = "m"
	}

	return []string{
		"-r",
		"-s", strconv.FormatFloat(sampleRate/1000, 'f', -1, 64),
		"--bitwidth", "16",
		"--signed",
		"--little-endian",
		"-m", mode,
		"-b", strconv.Itoa(kbps),
		"--cbr",
		"--tt", mp3Title,
		"--ta", mp3Artist,
		"-",
		path,
	}
}

func openMP3(path string, sampleRate float64, channels int, opts Options) (*mp3Sink, error) {
	if channels > 2 {
		return nil, fmt.Errorf("%w: mp3 supports at most 2 channels, got %d", ErrInvalidOptions, channels)
	}

	lame, err := LocateLAME(opts.LAMEPath)
	if err != nil {
		return nil, err
	}

	q, err := newQuantizer(16, opts)
	if err != nil {
		return nil, err
	}

	// Probe the destination so an unwritable path reports ErrOpen rather
	// than a late encoder failure.
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}
	f.Close()

	s := &mp3Sink{
		cmd:      exec.Command(lame, lameArgs(path, sampleRate, channels, opts.BitrateKbps)...),
		quant:    q,
		channels: channels,
	}
	s.cmd.Stderr = &s.stderr

	// Until lame is running the destination holds only the empty probe file.
	s.stdin, err = s.cmd.StdinPipe()
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: lame stdin: %w", ErrEncoderUnavailable, err)
	}
	if err := s.cmd.Start(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: start %s: %w", ErrEncoderUnavailable, lame, err)
	}
	s.w = bufio.NewWriterSize(s.stdin, 64*1024)

	return s, nil
}

func (s *mp3Sink) Write(block *buffer.Block) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkShape(block, s.channels); err != nil {
		return err
	}

	s.ints = interleave(s.ints, s.quant, block)

	n := 2 * len(s.ints)
	if cap(s.frame) < n {
		s.frame = make([]byte, n)
	}
	s.frame = s.frame[:n]
	for i, v := range s.ints {
		binary.LittleEndian.PutUint16(s.frame[2*i:], uint16(int16(v)))
	}

	if _, err := s.w.Write(s.frame); err != nil {
		return fmt.Errorf("encode: write to lame: %w", err)
	}
	return nil
}

func (s *mp3Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("encode: flush lame input: %w", err))
	}
	if err := s.stdin.Close(); err != nil {
		errs = append(errs, fmt.Errorf("encode: close lame input: %w", err))
	}
	if err := s.cmd.Wait(); err != nil {
		errs = append(errs, fmt.Errorf("encode: lame: %w: %s", err, bytes.TrimSpace(s.stderr.Bytes())))
	}
	return errors.Join(errs...)
}
