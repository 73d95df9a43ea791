package services

import (
	"fmt"
	"os"

	"cadenza/types"
	"github.com/schollz/progressbar/v3"
)

// ConsoleSink renders progress snapshots as a terminal progress bar.
// Used in CLI mode.
type ConsoleSink struct {
	bar *progressbar.ProgressBar
}

// NewConsoleSink creates a terminal progress sink.
func NewConsoleSink() *ConsoleSink {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Starting..."),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
	)
	return &ConsoleSink{bar: bar}
}

// Notify updates the bar. Errors from the bar are ignored; a broken
// terminal must not stall the download.
func (c *ConsoleSink) Notify(msg types.ProgressMessage) {
	desc := msg.Message
	if msg.CurrentTrack > 0 {
		desc = fmt.Sprintf("%s (%d/%d)", msg.Message, msg.CurrentTrack, msg.TotalTracks)
	}
	if msg.Speed != "" {
		desc += " " + msg.Speed
	}
	c.bar.Describe(desc)
	_ = c.bar.Set(msg.Percent)
	if msg.Type == "complete" {
		_ = c.bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
}
