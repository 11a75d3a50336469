package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/algo-binaural/binaural"
	"github.com/cwbudde/algo-binaural/live"
	"github.com/cwbudde/algo-binaural/params"
	"github.com/sirupsen/logrus"
)

const deviceBuffer = 100 * time.Millisecond

type playSettings struct {
	preset   string
	base     float64
	offset   float64
	manual   bool
	left     float64
	right    float64
	leftDB   float64
	rightDB  float64
	masterDB float64
}

// buildStore fills a parameter store from play flags. A preset wins over
// -base/-offset; -manual wins over both.
func buildStore(a *app, s playSettings) (*params.Store, error) {
	store := params.NewStore()

	set := func(id params.ID, v float64) error {
		if err := store.Set(id, v); err != nil {
			return fmt.Errorf("set %s: %w", id, err)
		}
		return nil
	}

	if s.preset != "" {
		i, err := resolvePreset(a.catalog, s.preset)
		if err != nil {
			return nil, err
		}
		if err := store.ApplyPreset(a.catalog, i); err != nil {
			return nil, err
		}
	} else {
		if err := set(params.BaseFrequency, s.base); err != nil {
			return nil, err
		}
		if err := set(params.BinauralOffset, s.offset); err != nil {
			return nil, err
		}
	}

	if s.manual {
		store.SetMode(binaural.ModeManual)
		if err := set(params.LeftFrequency, s.left); err != nil {
			return nil, err
		}
		if err := set(params.RightFrequency, s.right); err != nil {
			return nil, err
		}
	}

	for _, kv := range []struct {
		id params.ID
		v  float64
	}{
		{params.LeftVolume, s.leftDB},
		{params.RightVolume, s.rightDB},
		{params.MasterVolume, s.masterDB},
	} {
		if err := set(kv.id, kv.v); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func runPlay(a *app, args []string) error {
	var s playSettings
	fs := newFlagSet(a, "play", "[flags]")
	fs.StringVar(&s.preset, "preset", "", "preset index or name")
	fs.Float64Var(&s.base, "base", 440, "base frequency in Hz (20-20000)")
	fs.Float64Var(&s.offset, "offset", 10, "binaural offset in Hz (0-100)")
	fs.BoolVar(&s.manual, "manual", false, "set left and right frequencies independently")
	fs.Float64Var(&s.left, "left", 440, "left frequency in Hz (manual mode)")
	fs.Float64Var(&s.right, "right", 450, "right frequency in Hz (manual mode)")
	fs.Float64Var(&s.leftDB, "left-db", -6, "left volume in dB (-60..0)")
	fs.Float64Var(&s.rightDB, "right-db", -6, "right volume in dB (-60..0)")
	fs.Float64Var(&s.masterDB, "master-db", 0, "master volume in dB (-60..0)")
	seconds := fs.Float64("seconds", 0, "play duration; 0 plays until interrupted")
	rate := fs.Int("rate", a.cfg.SampleRate, "sample rate in Hz")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *seconds < 0 || math.IsNaN(*seconds) {
		return fmt.Errorf("seconds must be >= 0: %v", *seconds)
	}

	store, err := buildStore(a, s)
	if err != nil {
		return err
	}

	proc, err := live.NewProcessor(store)
	if err != nil {
		return err
	}
	proc.Prepare(float64(*rate), a.cfg.BlockSize)

	stream, err := live.NewStream(proc, a.cfg.BlockSize, int64(math.Round(*seconds*float64(*rate))))
	if err != nil {
		return err
	}

	player, err := live.NewPlayer(*rate, deviceBuffer, stream, a.log)
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := proc.Generator()
	a.log.WithFields(logrus.Fields{
		"mode":     store.Snapshot().Mode.String(),
		"left_hz":  g.LeftFrequency(),
		"right_hz": g.RightFrequency(),
		"duration": formatTime(*seconds),
	}).Info("playing")

	player.Play()
	if err := player.Wait(ctx); err != nil {
		a.log.Info("playback interrupted")
	}
	return nil
}
