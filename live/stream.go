package live

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-binaural/dsp/buffer"
)

const (
	channels      = 2
	bytesPerFloat = 4
	frameBytes    = channels * bytesPerFloat
)

// Stream renders a Processor as interleaved stereo float32 little-endian
// bytes, the layout oto.FormatFloat32LE expects.
type Stream struct {
	proc      *Processor
	block     *buffer.Block
	blockSize int
	out       []byte
	pending   []byte
	maxFrames int64
	frames    int64
}

// NewStream returns a Stream rendering blockSize frames at a time. A
// positive maxFrames ends the stream with io.EOF after that many frames.
// The processor must already be prepared.
func NewStream(proc *Processor, blockSize int, maxFrames int64) (*Stream, error) {
	if proc == nil {
		return nil, fmt.Errorf("live: processor must not be nil")
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("live: block size must be > 0: %d", blockSize)
	}

	return &Stream{
		proc:      proc,
		block:     buffer.New(channels, blockSize),
		blockSize: blockSize,
		out:       make([]byte, blockSize*frameBytes),
		maxFrames: maxFrames,
	}, nil
}

// Frames returns the number of frames rendered so far.
func (s *Stream) Frames() int64 { return s.frames }

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			if !s.render() {
				break
			}
		}
		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *Stream) render() bool {
	frames := s.blockSize
	if s.maxFrames > 0 {
		left := s.maxFrames - s.frames
		if left <= 0 {
			return false
		}
		frames = int(min(int64(frames), left))
	}

	s.block.Resize(frames)
	s.proc.ProcessBlock(s.block)

	l, r := s.block.Channel(0), s.block.Channel(1)
	out := s.out[:frames*frameBytes]
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint32(out[i*frameBytes:], math.Float32bits(float32(l[i])))
		binary.LittleEndian.PutUint32(out[i*frameBytes+bytesPerFloat:], math.Float32bits(float32(r[i])))
	}

	s.pending = out
	s.frames += int64(frames)
	return true
}
