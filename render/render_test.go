package render

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-binaural/analysis"
	"github.com/cwbudde/algo-binaural/dsp/buffer"
	"github.com/cwbudde/algo-binaural/encode"
	"github.com/cwbudde/algo-binaural/internal/testutil"
	"github.com/cwbudde/algo-binaural/preset"
)

type recordingSink struct {
	lengths  []int
	left     []float64
	right    []float64
	failAt   int
	onWrite  func(n int)
	closed   int
	channels int
}

func (s *recordingSink) Write(b *buffer.Block) error {
	if s.failAt > 0 && len(s.lengths)+1 == s.failAt {
		return errors.New("disk full")
	}
	s.channels = b.NumChannels()
	s.lengths = append(s.lengths, b.Len())
	s.left = append(s.left, b.Channel(0)...)
	s.right = append(s.right, b.Channel(1)...)
	if s.onWrite != nil {
		s.onWrite(len(s.lengths))
	}
	return nil
}

func (s *recordingSink) Close() error {
	s.closed++
	return nil
}

func (s *recordingSink) total() int {
	n := 0
	for _, l := range s.lengths {
		n += l
	}
	return n
}

func newRenderer(t *testing.T, sink *recordingSink, opens *int, opts ...Option) *Renderer {
	t.Helper()
	opener := func(string, float64, int, encode.Options) (encode.Sink, error) {
		*opens++
		return sink, nil
	}
	r, err := New(preset.Default(), append([]Option{WithOpener(opener)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func request(presetIndex int, seconds, rate float64) Request {
	return Request{
		PresetIndex:     presetIndex,
		DurationSeconds: seconds,
		SampleRate:      rate,
		Channels:        2,
		Encoding:        encode.Options{Format: encode.FormatWAV},
	}
}

func TestRenderExactSampleCount(t *testing.T) {
	sink := &recordingSink{}
	opens := 0
	r := newRenderer(t, sink, &opens)

	var last float64
	res, err := r.Render(context.Background(), "x.wav", request(2, 2.5, 44100), func(f float64) { last = f })
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if res.TotalSamples != 110250 || res.SamplesWritten != 110250 || sink.total() != 110250 {
		t.Fatalf("samples: result %+v, sink %d; want 110250", res, sink.total())
	}
	wantChunks := (110250 + 511) / 512
	if res.Chunks != wantChunks || len(sink.lengths) != wantChunks {
		t.Fatalf("chunks = %d (sink %d), want %d", res.Chunks, len(sink.lengths), wantChunks)
	}
	for i, n := range sink.lengths[:len(sink.lengths)-1] {
		if n != 512 {
			t.Fatalf("chunk %d has %d samples, want 512", i, n)
		}
	}
	if tail := sink.lengths[len(sink.lengths)-1]; tail != 110250%512 {
		t.Fatalf("tail chunk = %d, want %d", tail, 110250%512)
	}
	if last != 1 {
		t.Fatalf("final progress = %v, want 1", last)
	}
	if sink.closed != 1 || opens != 1 {
		t.Fatalf("opens=%d closes=%d", opens, sink.closed)
	}
}

func TestRenderRoundsTotalSamples(t *testing.T) {
	req := request(0, 0.00001, 44100)
	if got := req.TotalSamples(); got != 0 {
		t.Fatalf("TotalSamples() = %d, want 0", got)
	}
	req.DurationSeconds = 1.0 / 3
	if got := req.TotalSamples(); got != 14700 {
		t.Fatalf("TotalSamples() = %d, want 14700", got)
	}
}

func TestRenderZeroDuration(t *testing.T) {
	sink := &recordingSink{}
	opens := 0
	r := newRenderer(t, sink, &opens)

	var calls []float64
	res, err := r.Render(context.Background(), "x.wav", request(0, 0, 48000), func(f float64) { calls = append(calls, f) })
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(sink.lengths) != 1 || sink.lengths[0] != 0 || sink.channels != 2 {
		t.Fatalf("sink writes = %v (%d channels), want one empty stereo block", sink.lengths, sink.channels)
	}
	if res.SamplesWritten != 0 || res.Chunks != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Fatalf("progress calls = %v, want [1]", calls)
	}
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times", sink.closed)
	}
}

func TestRenderCancelAfterChunk(t *testing.T) {
	const k = 5

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &recordingSink{onWrite: func(n int) {
		if n == k {
			cancel()
		}
	}}
	opens := 0
	r := newRenderer(t, sink, &opens)

	res, err := r.Render(ctx, "x.wav", request(1, 10, 44100), nil)
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want ErrCancelled wrapping context.Canceled", err)
	}
	if len(sink.lengths) != k || res.Chunks != k {
		t.Fatalf("writes = %d, chunks = %d, want %d", len(sink.lengths), res.Chunks, k)
	}
	if res.SamplesWritten != k*512 {
		t.Fatalf("SamplesWritten = %d, want %d", res.SamplesWritten, k*512)
	}
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times, want 1", sink.closed)
	}
}

func TestRenderPreCancelledOpensNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	opens := 0
	r := newRenderer(t, sink, &opens)

	if _, err := r.Render(ctx, "x.wav", request(0, 1, 44100), nil); !errors.Is(err, ErrCancelled) {
		t.Fatalf("Render() error = %v, want ErrCancelled", err)
	}
	if opens != 0 {
		t.Fatalf("opener called %d times", opens)
	}
}

func TestRenderValidationOpensNoSink(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"negative preset", request(-1, 1, 44100), ErrInvalidPreset},
		{"preset past end", request(5, 1, 44100), ErrInvalidPreset},
		{"zero rate", request(0, 1, 0), ErrInvalidRequest},
		{"nan rate", request(0, 1, math.NaN()), ErrInvalidRequest},
		{"inf rate", request(0, 1, math.Inf(1)), ErrInvalidRequest},
		{"negative duration", request(0, -1, 44100), ErrInvalidRequest},
		{"nan duration", request(0, math.NaN(), 44100), ErrInvalidRequest},
		{"overflowing length", request(0, 1e300, 44100), ErrInvalidRequest},
		{"length at counter limit", request(0, maxSamples, 1), ErrInvalidRequest},
		{"mono", func() Request { r := request(0, 1, 44100); r.Channels = 1; return r }(), ErrInvalidRequest},
		{"bad bitrate", func() Request {
			r := request(0, 1, 44100)
			r.Encoding = encode.Options{Format: encode.FormatMP3, BitrateKbps: 100}
			return r
		}(), ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			opens := 0
			r := newRenderer(t, sink, &opens)

			if _, err := r.Render(context.Background(), "x.wav", tt.req, nil); !errors.Is(err, tt.want) {
				t.Fatalf("Render() error = %v, want %v", err, tt.want)
			}
			if opens != 0 {
				t.Fatalf("opener called %d times", opens)
			}
		})
	}
}

func TestRenderWriteFailure(t *testing.T) {
	sink := &recordingSink{failAt: 3}
	opens := 0
	r := newRenderer(t, sink, &opens)

	res, err := r.Render(context.Background(), "x.wav", request(0, 1, 44100), nil)
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("Render() error = %v, want ErrWrite", err)
	}
	if res.Chunks != 2 || res.SamplesWritten != 1024 {
		t.Fatalf("result = %+v", res)
	}
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times", sink.closed)
	}
}

func TestRenderOpenErrorPropagates(t *testing.T) {
	opener := func(string, float64, int, encode.Options) (encode.Sink, error) {
		return nil, encode.ErrEncoderUnavailable
	}
	r, err := New(preset.Default(), WithOpener(opener))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r.Render(context.Background(), "x.mp3", request(0, 1, 44100), nil); !errors.Is(err, encode.ErrEncoderUnavailable) {
		t.Fatalf("Render() error = %v, want ErrEncoderUnavailable", err)
	}
}

func TestRenderAppliesPresetAndLevels(t *testing.T) {
	sink := &recordingSink{}
	opens := 0
	r := newRenderer(t, sink, &opens, WithChunkSize(1000))

	req := request(4, 1, 44100) // Gamma: 200 Hz + 40 Hz
	req.Levels = &Levels{Left: 0.5, Right: 0.25, Master: 1}

	if _, err := r.Render(context.Background(), "x.wav", req, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	report, err := analysis.Beat(sink.left, sink.right, 44100)
	if err != nil {
		t.Fatalf("Beat() error = %v", err)
	}
	if math.Abs(report.LeftHz-200) > report.BinHz || math.Abs(report.RightHz-240) > report.BinHz {
		t.Fatalf("fundamentals = %v / %v Hz, want 200 / 240", report.LeftHz, report.RightHz)
	}

	testutil.RequireFinite(t, sink.left)
	peakL, peakR := peak(sink.left), peak(sink.right)
	if math.Abs(peakL-0.5) > 1e-3 || math.Abs(peakR-0.25) > 1e-3 {
		t.Fatalf("peaks = %v / %v, want 0.5 / 0.25", peakL, peakR)
	}
}

func TestRenderDefaultLevels(t *testing.T) {
	sink := &recordingSink{}
	opens := 0
	r := newRenderer(t, sink, &opens)

	if _, err := r.Render(context.Background(), "x.wav", request(0, 0.5, 44100), nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := DefaultLevels().Left
	if got := peak(sink.left); math.Abs(got-want) > 1e-3 {
		t.Fatalf("peak = %v, want %v", got, want)
	}
}

func TestRenderToWAVFile(t *testing.T) {
	r, err := New(preset.Default(), WithChunkSize(256))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "alpha.wav")

	req := request(2, 0.25, 22050)
	req.Encoding.BitDepth = 16

	res, err := r.Render(context.Background(), path, req, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got, err := analysis.ReadWAV(path, 0)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if int64(got.Frames()) != res.TotalSamples || got.SampleRate != 22050 || got.BitDepth != 16 {
		t.Fatalf("file: %d frames @ %v Hz %d bits, want %d @ 22050 16", got.Frames(), got.SampleRate, got.BitDepth, res.TotalSamples)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
	if _, err := New(preset.Default(), WithChunkSize(0)); err == nil {
		t.Fatal("expected error for zero chunk size")
	}
	if _, err := New(preset.Default(), WithOpener(nil)); err == nil {
		t.Fatal("expected error for nil opener")
	}
}

func peak(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		m = math.Max(m, math.Abs(v))
	}
	return m
}
