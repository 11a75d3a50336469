package live

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

const pollInterval = 50 * time.Millisecond

// Player plays an interleaved stereo float32 stream on the default output
// device. Only one Player may exist per process because oto allows a single
// context.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	log    logrus.FieldLogger
}

// NewPlayer opens the audio device at sampleRate with the given device
// buffer duration and attaches src.
func NewPlayer(sampleRate int, bufferSize time.Duration, src io.Reader, log logrus.FieldLogger) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("live: sample rate must be > 0: %d", sampleRate)
	}
	if src == nil {
		return nil, fmt.Errorf("live: source must not be nil")
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("live: open audio device: %w", err)
	}
	<-ready

	log.WithFields(logrus.Fields{"sample_rate": sampleRate, "buffer": bufferSize}).Debug("audio device ready")

	return &Player{ctx: ctx, player: ctx.NewPlayer(src), log: log}, nil
}

// Play starts playback without blocking.
func (p *Player) Play() {
	p.player.Play()
	p.log.Debug("playback started")
}

// Pause suspends playback.
func (p *Player) Pause() { p.player.Pause() }

// IsPlaying reports whether the source is still being consumed.
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Wait blocks until the source is exhausted or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for p.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("live: close player: %w", err)
	}
	p.log.Debug("playback stopped")
	return nil
}
