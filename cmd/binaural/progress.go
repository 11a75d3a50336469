package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const (
	barWidth     = 30
	logStepCount = 10
)

// formatTime renders whole seconds as H:MM:SS, or M:SS below one hour.
func formatTime(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// durationText describes an export length for humans.
func durationText(seconds float64) string {
	if minutes := seconds / 60; minutes >= 1 {
		return fmt.Sprintf("%.1f minutes", minutes)
	}
	return fmt.Sprintf("%.0f seconds", seconds)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressReporter draws a bar on terminals and logs every tenth otherwise.
// update is called from a single goroutine.
type progressReporter struct {
	w        io.Writer
	tty      bool
	duration float64
	log      logrus.FieldLogger
	lastStep int
	drawn    bool
}

func newProgressReporter(w io.Writer, duration float64, log logrus.FieldLogger) *progressReporter {
	return &progressReporter{w: w, tty: isTerminal(w), duration: duration, log: log}
}

func (p *progressReporter) update(fraction float64) {
	fraction = min(max(fraction, 0), 1)

	if p.tty {
		filled := int(fraction * barWidth)
		fmt.Fprintf(p.w, "\r[%s%s] %3.0f%% %s / %s",
			strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled),
			fraction*100, formatTime(fraction*p.duration), formatTime(p.duration))
		p.drawn = true
		return
	}

	step := int(fraction * logStepCount)
	if step > p.lastStep {
		p.lastStep = step
		p.log.WithField("progress", fmt.Sprintf("%d%%", step*100/logStepCount)).Info("exporting")
	}
}

func (p *progressReporter) finish() {
	if p.drawn {
		fmt.Fprintln(p.w)
	}
}
