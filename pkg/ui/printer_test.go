package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/skel/pkg/ui"
)

func TestNewPrinter_AutoOnNonFileFallsBackToText(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatAuto)

	assert.Equal(t, ui.FormatText, p.Format())
}

func TestPrinter_TextFormatIsPlain(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatText)

	p.Success("created %d directories", 3)
	p.Error("population failed")
	p.Warning("target %s is not empty", "/work/proj")
	p.Info("using template %s", "default")
	p.Step(2, 4, "generating structure")
	p.Plain("done")

	out := buf.String()
	assert.Contains(t, out, "created 3 directories\n")
	assert.Contains(t, out, "Error: population failed\n")
	assert.Contains(t, out, "target /work/proj is not empty\n")
	assert.Contains(t, out, "using template default\n")
	assert.Contains(t, out, "Step 2/4: generating structure\n")
	assert.Contains(t, out, "done\n")
}

func TestPrinter_InlineFragments(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatText)

	assert.Equal(t, "/work/proj", p.Path("/work/proj"))
	assert.Equal(t, "42", p.Count(42))
}

func TestPrinter_TerminalFormatKeepsContent(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatTerminal)

	p.Success("all files copied")
	p.Title("summary")

	out := buf.String()
	assert.Contains(t, out, "all files copied")
	assert.Contains(t, out, "summary")
}

func TestPrinter_MarkdownPassthroughInTextMode(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatText)

	src := "# Assessment\n\nLooks complete."
	assert.Equal(t, src, p.Markdown(src))
}

func TestPrinter_MarkdownRendersForTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatTerminal)

	rendered := p.Markdown("# Assessment\n\nLooks complete.")
	assert.Contains(t, rendered, "Assessment")
	assert.Contains(t, rendered, "Looks complete.")
}
