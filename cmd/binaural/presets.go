package main

import (
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
)

var errUsage = errors.New("usage")

func newFlagSet(a *app, name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: binaural %s %s\n\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func runPresets(a *app, args []string) error {
	fs := newFlagSet(a, "presets", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tBase (Hz)\tOffset (Hz)\tDescription")
	for i, p := range a.catalog.All() {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\t%s\n", i, p.Name, p.BaseFrequencyHz, p.OffsetHz, p.Description)
	}
	return tw.Flush()
}
