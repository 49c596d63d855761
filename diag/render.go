package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/bindgen/errors"
)

// Render prints err for a terminal. Diagnostics are printed note by note with
// the offending source line underlined; a header line is printed whenever the
// source unit changes. Errors that are not diagnostics are printed as-is.
func Render(w io.Writer, reg *SourceRegistry, err error) {
	if err == nil {
		return
	}

	var list *List
	var single *Error
	switch {
	case errors.As(err, &list):
		for _, d := range list.errs {
			renderOne(w, reg, d)
		}
	case errors.As(err, &single):
		renderOne(w, reg, single)
	default:
		fmt.Fprintf(w, "%s %v\n", pterm.Red("error:"), err)
	}
}

func renderOne(w io.Writer, reg *SourceRegistry, d *Error) {
	prev := NoSource
	for i, note := range d.notes {
		label := pterm.Red("error:")
		if i > 0 {
			label = pterm.LightCyan("note:")
		}

		src, ok := reg.Source(note.Span.Source)
		if !ok || !note.Span.IsValid() {
			fmt.Fprintf(w, "%s %s (without location information)\n", label, note.Message)
			continue
		}

		if note.Span.Source != prev {
			fmt.Fprintf(w, "%s in %s\n", pterm.Yellow(kindLabel(d.kind)), src.Name)
		}
		prev = note.Span.Source

		fmt.Fprintf(w, "%s %s\n", label, note.Message)
		fmt.Fprint(w, underline(src.Code, note.Span))
		fmt.Fprintf(w, "  at %s:%d:%d\n", src.Name, note.Span.Start.Line, note.Span.Start.Column)
	}
}

func kindLabel(kind error) string {
	if kind == nil {
		return "diagnostic"
	}
	return kind.Error()
}

// underline returns the spanned lines with a caret marker under the first one.
func underline(code string, sp Span) string {
	lines := strings.Split(code, "\n")
	if sp.Start.Line > len(lines) {
		return ""
	}

	var sb strings.Builder
	line := strings.TrimRight(lines[sp.Start.Line-1], "\r")
	sb.WriteString("    ")
	sb.WriteString(line)
	sb.WriteString("\n")

	start := sp.Start.Column
	if start < 1 {
		start = 1
	}
	width := len(line) - start + 1
	if sp.End.Line == sp.Start.Line && sp.End.Column > start {
		width = sp.End.Column - start
	}
	if width < 1 {
		width = 1
	}

	sb.WriteString("    ")
	sb.WriteString(strings.Repeat(" ", start-1))
	sb.WriteString(pterm.Red(strings.Repeat("^", width)))
	sb.WriteString("\n")
	return sb.String()
}
