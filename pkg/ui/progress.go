package ui

import (
	"github.com/pterm/pterm"

	"github.com/arthur-debert/skel/pkg/populator"
)

// Bar reports population progress with a pterm progress bar.
type Bar struct {
	bar *pterm.ProgressbarPrinter
}

var _ populator.Progress = (*Bar)(nil)
var _ populator.Progress = Silent{}

// NewBar returns an unstarted progress bar. Begin starts it.
func NewBar() *Bar {
	return &Bar{}
}

// Begin starts the bar with the total number of files.
func (b *Bar) Begin(total int, label string) {
	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(label).Start()
	if err != nil {
		return
	}
	b.bar = bar
}

// Advance records one processed file. The current path becomes the
// bar title.
func (b *Bar) Advance(path string, outcome string) {
	if b.bar == nil {
		return
	}
	b.bar.UpdateTitle(path)
	b.bar.Increment()
}

// End stops the bar.
func (b *Bar) End() {
	if b.bar == nil {
		return
	}
	_, _ = b.bar.Stop()
	b.bar = nil
}

// Silent discards progress events. Used for dry runs and piped
// output.
type Silent struct{}

// Begin implements populator.Progress.
func (Silent) Begin(total int, label string) {}

// Advance implements populator.Progress.
func (Silent) Advance(path string, outcome string) {}

// End implements populator.Progress.
func (Silent) End() {}
