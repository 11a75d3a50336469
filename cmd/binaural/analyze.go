package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-binaural/analysis"
	"github.com/cwbudde/algo-binaural/dsp/window"
)

func runAnalyze(a *app, args []string) error {
	fs := newFlagSet(a, "analyze", "[flags] file.wav")
	maxSeconds := fs.Float64("max-seconds", 30, "analyze at most this many seconds from the start (0 = all)")
	windowName := fs.String("window", window.TypeHann.String(), "analysis window: hann, hamming, blackman, blackman-harris, flat-top, rectangular")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	win, err := window.ParseType(*windowName)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	path := fs.Arg(0)

	// Read the header first so -max-seconds can be converted to frames.
	head, err := analysis.ReadWAV(path, 1)
	if err != nil {
		return err
	}
	maxFrames := 0
	if *maxSeconds > 0 {
		maxFrames = int(math.Round(*maxSeconds * head.SampleRate))
	}

	audio, err := analysis.ReadWAV(path, maxFrames)
	if err != nil {
		return err
	}
	if len(audio.Channels) < 2 {
		return fmt.Errorf("%s: need a stereo file, got %d channel(s)", path, len(audio.Channels))
	}

	report, err := analysis.Beat(audio.Channels[0], audio.Channels[1], audio.SampleRate, analysis.WithWindow(win))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	seconds := float64(audio.Frames()) / audio.SampleRate
	fmt.Fprintf(a.stdout, "file:      %s\n", path)
	fmt.Fprintf(a.stdout, "format:    %d ch, %g Hz, %d bit, %s analyzed\n", len(audio.Channels), audio.SampleRate, audio.BitDepth, formatTime(seconds))
	left := analysis.MeasureLevels(audio.Channels[0])
	right := analysis.MeasureLevels(audio.Channels[1])
	fmt.Fprintf(a.stdout, "left:      %.2f Hz, peak %.1f dBFS, rms %.1f dBFS\n", report.LeftHz, left.PeakDB, left.RMSDB)
	fmt.Fprintf(a.stdout, "right:     %.2f Hz, peak %.1f dBFS, rms %.1f dBFS\n", report.RightHz, right.PeakDB, right.RMSDB)
	fmt.Fprintf(a.stdout, "beat:      %.2f Hz (resolution %.2f Hz)\n", report.BeatHz, report.BinHz)
	return nil
}
