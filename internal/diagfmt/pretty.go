// Package diagfmt renders diagnostics for terminals.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"rustic/internal/diag"
	"rustic/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	ShowNotes   bool
	ShowContext bool // print the offending source line with a caret
}

// Pretty writes bag's diagnostics in `path:line:col: SEVERITY[CODE]: msg`
// form. Internal codes get an extra "internal error" framing so compiler
// defects never read like user mistakes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		printDiagnostic(w, d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	head := fmt.Sprintf("%s[%s]", severityLabel(d, opts), d.Code.ID())
	fmt.Fprintf(w, "%s: %s: %s\n", location(fs, d.Primary), head, d.Message)

	if opts.ShowContext {
		printContext(w, fs, d.Primary, opts)
	}
	if d.Code.IsInternal() {
		fmt.Fprintf(w, "  note: this is a bug in the compiler, not in your program; please report it\n")
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", location(fs, n.Span), n.Msg)
		}
	}
}

func severityLabel(d diag.Diagnostic, opts PrettyOpts) string {
	label := d.Severity.String()
	if d.Code.IsInternal() {
		label = "INTERNAL " + label
	}
	if !opts.Color {
		return label
	}
	switch d.Severity {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold).Sprint(label)
	default:
		return color.New(color.FgCyan).Sprint(label)
	}
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return "<unknown>"
	}
	file := fs.Get(sp.File)
	if file == nil {
		return "<unknown>"
	}
	if sp.Empty() && sp.Start == 0 {
		return file.Path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// printContext shows the offending line with a caret run under the span.
func printContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	if fs == nil || sp.Empty() {
		return
	}
	file := fs.Get(sp.File)
	if file == nil {
		return
	}
	start, end := fs.Resolve(sp)
	line := file.GetLine(start.Line)
	if line == "" || start.Col == 0 {
		return
	}
	fmt.Fprintf(w, "  %5d | %s\n", start.Line, line)

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	marker := strings.Repeat("^", width)
	if opts.Color {
		marker = color.New(color.FgRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %5s | %s%s\n", "", strings.Repeat(" ", int(start.Col)-1), marker)
}
