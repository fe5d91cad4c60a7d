// Package ui renders skel's user-facing output: leveled messages,
// markdown, and population progress. Output adapts to the terminal;
// plain text is emitted when piped or when NO_COLOR is set.
package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/skel/pkg/ui/styles"
)

// Printer writes user-facing messages, styled when the resolved
// format allows it.
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a printer for the given writer. FormatAuto is
// resolved against the writer; non-file writers fall back to plain
// text.
func NewPrinter(out io.Writer, format Format) *Printer {
	if format == FormatAuto {
		if file, ok := out.(*os.File); ok {
			format = DetectFormat(file)
		} else {
			format = FormatText
		}
	}
	return &Printer{out: out, format: format}
}

// Format returns the resolved output format.
func (p *Printer) Format() Format {
	return p.format
}

// Success prints a completed-action message.
func (p *Printer) Success(format string, args ...interface{}) {
	p.println("Success", fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...interface{}) {
	p.println("Error", "Error: "+fmt.Sprintf(format, args...))
}

// Warning prints a cautionary message.
func (p *Printer) Warning(format string, args ...interface{}) {
	p.println("Warning", fmt.Sprintf(format, args...))
}

// Info prints a neutral informational message.
func (p *Printer) Info(format string, args ...interface{}) {
	p.println("Info", fmt.Sprintf(format, args...))
}

// Title prints a section heading.
func (p *Printer) Title(format string, args ...interface{}) {
	p.println("Title", fmt.Sprintf(format, args...))
}

// Step prints a pipeline stage heading.
func (p *Printer) Step(n, total int, label string) {
	p.println("Title", fmt.Sprintf("Step %d/%d: %s", n, total, label))
}

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Path styles a filesystem path for inline use.
func (p *Printer) Path(path string) string {
	return p.styled("Path", path)
}

// Count styles a numeric summary fragment for inline use.
func (p *Printer) Count(n int) string {
	return p.styled("Count", strconv.Itoa(n))
}

// Markdown renders markdown for terminal display. Plain formats get
// the source unchanged.
func (p *Printer) Markdown(content string) string {
	if p.format != FormatTerminal {
		return content
	}
	rendered, err := glamour.Render(content, "auto")
	if err != nil {
		return content
	}
	return rendered
}

func (p *Printer) println(style, msg string) {
	_, _ = fmt.Fprintln(p.out, p.styled(style, msg))
}

func (p *Printer) styled(style, msg string) string {
	if p.format != FormatTerminal {
		return msg
	}
	return styles.GetStyle(style).Render(msg)
}
