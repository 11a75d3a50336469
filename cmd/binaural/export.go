package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/cwbudde/algo-binaural/encode"
	"github.com/cwbudde/algo-binaural/export"
	"github.com/cwbudde/algo-binaural/internal/config"
	"github.com/cwbudde/algo-binaural/params"
	"github.com/cwbudde/algo-binaural/preset"
	"github.com/cwbudde/algo-binaural/render"
	"github.com/sirupsen/logrus"
)

const maxExportMinutes = 120

// resolvePreset accepts a catalog index or a case-insensitive preset name.
func resolvePreset(c *preset.Catalog, s string) (int, error) {
	if i, err := strconv.Atoi(s); err == nil {
		if _, err := c.At(i); err != nil {
			return 0, err
		}
		return i, nil
	}
	if i, ok := c.Find(s); ok {
		return i, nil
	}
	return 0, fmt.Errorf("unknown preset %q", s)
}

func defaultOutputPath(dir, presetName string, seconds float64, f encode.Format) string {
	name := fmt.Sprintf("binaural-%s-%s", strings.ToLower(presetName), strings.ReplaceAll(formatTime(seconds), ":", "-"))
	return filepath.Join(dir, name+f.Extension())
}

// levelsFromStore converts dB flags through the live parameter ranges.
func levelsFromStore(leftDB, rightDB, masterDB float64) (render.Levels, error) {
	store := params.NewStore()
	for _, kv := range []struct {
		id params.ID
		v  float64
	}{
		{params.LeftVolume, leftDB},
		{params.RightVolume, rightDB},
		{params.MasterVolume, masterDB},
	} {
		if err := store.Set(kv.id, kv.v); err != nil {
			return render.Levels{}, err
		}
	}

	l, r, m := store.Snapshot().Levels()
	return render.Levels{Left: l, Right: r, Master: m}, nil
}

func runExport(a *app, args []string) error {
	fs := newFlagSet(a, "export", "[flags]")
	presetFlag := fs.String("preset", "0", "preset index or name")
	minutes := fs.Float64("minutes", 1, "duration in minutes (0-120)")
	seconds := fs.Float64("seconds", -1, "duration in seconds; overrides -minutes when >= 0")
	formatFlag := fs.String("format", "wav", "output format: wav or mp3")
	bitrate := fs.Int("bitrate", a.cfg.MP3Bitrate, "mp3 bitrate in kbps (128, 192, 256, 320)")
	bitDepth := fs.Int("bitdepth", a.cfg.WAVBitDepth, "wav bit depth (16 or 24)")
	rate := fs.Int("rate", a.cfg.SampleRate, "sample rate in Hz")
	out := fs.String("out", "", "output path (default: generated name in BINAURAL_OUTPUT_DIR)")
	leftDB := fs.Float64("left-db", -6, "left volume in dB (-60..0)")
	rightDB := fs.Float64("right-db", -6, "right volume in dB (-60..0)")
	masterDB := fs.Float64("master-db", 0, "master volume in dB (-60..0)")
	keep := fs.Bool("keep-partial", false, "keep the partial file when the export fails or is cancelled")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	index, err := resolvePreset(a.catalog, *presetFlag)
	if err != nil {
		return err
	}
	p, _ := a.catalog.At(index)

	format, err := encode.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}

	duration := *minutes * 60
	if *seconds >= 0 {
		duration = *seconds
	}
	if duration < 0 || duration > maxExportMinutes*60 {
		return fmt.Errorf("duration must be between 0 and %d minutes: %s", maxExportMinutes, formatTime(duration))
	}

	levels, err := levelsFromStore(*leftDB, *rightDB, *masterDB)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = defaultOutputPath(a.cfg.OutputDir, p.Name, duration, format)
	}
	path = export.EnsureExtension(path, format)

	renderer, err := render.New(a.catalog, render.WithChunkSize(a.cfg.ChunkSize), render.WithLogger(a.log))
	if err != nil {
		return err
	}

	req := render.Request{
		PresetIndex:     index,
		DurationSeconds: duration,
		SampleRate:      float64(*rate),
		Channels:        2,
		Encoding: encode.Options{
			Format:      format,
			BitDepth:    *bitDepth,
			BitrateKbps: *bitrate,
			LAMEPath:    a.cfg.LAMEPath,
		},
		Levels: &levels,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.WithFields(logrus.Fields{
		"preset":   p.Name,
		"format":   format.String(),
		"duration": durationText(duration),
		"path":     path,
	}).Info("exporting")

	progress := newProgressReporter(a.stderr, duration, a.log)
	job, err := export.Start(ctx, renderer, path, req,
		export.WithRemovePartial(!*keep),
		export.WithProgress(progress.update),
		export.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	_, err = job.Wait()
	progress.finish()

	switch {
	case errors.Is(err, encode.ErrEncoderUnavailable):
		return fmt.Errorf("%w\nMP3 export requires the LAME encoder (e.g. 'sudo apt-get install lame' or 'brew install lame'), or set %s", err, config.EnvLAMEPath)
	case err != nil:
		return err
	}

	fmt.Fprintln(a.stdout, job.Path())
	return nil
}
