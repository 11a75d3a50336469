// Command binaural generates binaural-beat audio.
//
// Usage:
//
//	binaural <command> [flags]
//
// Commands:
//
//	presets   list the preset catalog
//	export    render a preset to a WAV or MP3 file
//	play      play a tone pair on the default audio device
//	analyze   report the left/right fundamentals and beat of a WAV file
//
// Examples:
//
//	binaural presets
//	binaural export -preset 2 -minutes 10 -format mp3 -bitrate 256
//	binaural play -base 180 -offset 6 -seconds 30
//	binaural analyze alpha.wav
//
// Settings are read from BINAURAL_* environment variables and an optional
// .env file in the working directory.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-binaural/internal/config"
	"github.com/cwbudde/algo-binaural/preset"
	"github.com/sirupsen/logrus"
)

type app struct {
	cfg     *config.Config
	catalog *preset.Catalog
	log     *logrus.Logger
	stdout  io.Writer
	stderr  io.Writer
}

type command struct {
	name    string
	summary string
	run     func(a *app, args []string) error
}

var commands = []command{
	{"presets", "list the preset catalog", runPresets},
	{"export", "render a preset to a WAV or MP3 file", runExport},
	{"play", "play a tone pair on the default audio device", runPlay},
	{"analyze", "report fundamentals and beat frequency of a WAV file", runAnalyze},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := lookupCommand(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	log := newLogger(stderr, cfg.LogLevel)

	catalog := preset.Default()
	if cfg.PresetsFile != "" {
		catalog, err = preset.LoadJSON(cfg.PresetsFile)
		if err != nil {
			log.WithError(err).Error("load presets")
			return 1
		}
	}

	a := &app{cfg: cfg, catalog: catalog, log: log, stdout: stdout, stderr: stderr}
	if err := cmd.run(a, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		log.WithError(err).Error(cmd.name + " failed")
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: binaural <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s  %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'binaural <command> -h' for command flags.\n")
}
