// Package diagutil renders parser.Diagnostic lists for humans and machines.
//
// It never reconstructs or pretty-prints the directives a diagnostic refers
// to: formatting stops at the diagnostic itself, one line (plus an optional
// source snippet) per entry.
package diagutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"ledgerparse/parser"
)

// Formatter renders a diagnostic list to a writer.
type Formatter interface {
	Format(w io.Writer, diagnostics []parser.Diagnostic) error
}

// TextFormatter renders one line per diagnostic, optionally followed by a
// ±Context line source snippet, color-coded by severity when the target
// stream is a terminal.
type TextFormatter struct {
	// Source, when set, is used to render context snippets. Keyed by
	// filename so a formatter can render diagnostics from multiple files.
	Source map[string][]byte
	// Context is how many lines of source to show above and below the
	// offending line. Zero disables snippets entirely.
	Context int
	// Color forces (or disables) ANSI styling. If nil, styling is enabled
	// only when the writer is a terminal.
	Color *bool
}

// NewTextFormatter creates a TextFormatter with a 2-line context window and
// terminal auto-detection.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{Context: 2}
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func (f *TextFormatter) useColor(w io.Writer) bool {
	if f.Color != nil {
		return *f.Color
	}
	type fileDescriptor interface{ Fd() uintptr }
	fd, ok := w.(fileDescriptor)
	if !ok {
		return false
	}
	return term.IsTerminal(int(fd.Fd()))
}

func severityStyle(kind parser.DiagnosticKind) lipgloss.Style {
	if kind == parser.DeprecatedWarning {
		return warningStyle
	}
	return errorStyle
}

// Format writes one line per diagnostic in filename:line: KIND: message
// form, with an optional source snippet underneath.
func (f *TextFormatter) Format(w io.Writer, diagnostics []parser.Diagnostic) error {
	color := f.useColor(w)

	for i, d := range diagnostics {
		if i > 0 {
			fmt.Fprintln(w)
		}

		header := fmt.Sprintf("%s:%d: %s: %s", d.Location.Filename, d.Location.Line, d.Kind, d.Message)
		if color {
			header = severityStyle(d.Kind).Render(header)
		}
		fmt.Fprintln(w, header)

		if f.Context <= 0 || f.Source == nil {
			continue
		}
		snippet := f.renderSnippet(d, color)
		if snippet != "" {
			fmt.Fprint(w, snippet)
		}
	}
	return nil
}

func (f *TextFormatter) renderSnippet(d parser.Diagnostic, color bool) string {
	source, ok := f.Source[d.Location.Filename]
	if !ok {
		return ""
	}
	lines := strings.Split(string(source), "\n")
	line := d.Location.Line
	if line < 1 || line > len(lines) {
		return ""
	}

	lo := line - f.Context
	if lo < 1 {
		lo = 1
	}
	hi := line + f.Context
	if hi > len(lines) {
		hi = len(lines)
	}

	gutterWidth := runewidth.StringWidth(fmt.Sprintf("%d", hi))

	var b strings.Builder
	for n := lo; n <= hi; n++ {
		gutter := fmt.Sprintf("%*d | ", gutterWidth, n)
		if color {
			gutter = gutterStyle.Render(gutter)
		}
		fmt.Fprintf(&b, "%s%s\n", gutter, lines[n-1])
		if n == line {
			marker := strings.Repeat(" ", gutterWidth+3+columnWidth(lines[n-1], d.Location.Column)) + "^"
			if color {
				marker = markerStyle.Render(marker)
			}
			fmt.Fprintln(&b, marker)
		}
	}
	return b.String()
}

// columnWidth returns the display width, in cells, of the text preceding a
// 1-indexed rune column, so the caret lines up under multi-width runes.
func columnWidth(line string, column int) int {
	if column < 1 {
		return 0
	}
	runes := []rune(line)
	upto := column - 1
	if upto > len(runes) {
		upto = len(runes)
	}
	return runewidth.StringWidth(string(runes[:upto]))
}

// JSONFormatter renders diagnostics as a JSON array for machine consumption.
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSONFormatter with no indentation.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type diagnosticJSON struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Entity   string `json:"entity,omitempty"`
}

// Format writes diagnostics as a single JSON array.
func (f *JSONFormatter) Format(w io.Writer, diagnostics []parser.Diagnostic) error {
	out := make([]diagnosticJSON, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = diagnosticJSON{
			Kind:     d.Kind.String(),
			Filename: d.Location.Filename,
			Line:     d.Location.Line,
			Column:   d.Location.Column,
			Message:  d.Message,
			Entity:   d.OffendingEntity,
		}
	}

	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(out)
}
