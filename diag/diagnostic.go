// Package diag carries structured diagnostics: one or more (span, message)
// notes tagged with a kind. The type map writes them; the CLI renders them.
package diag

import (
	"fmt"
	"strings"

	"github.com/teranos/bindgen/errors"
)

// Diagnostic kinds. Match with errors.Is.
var (
	// ErrDuplicateDeclaration: a foreign type or rule is declared twice
	ErrDuplicateDeclaration = errors.New("duplicate declaration")

	// ErrUnresolvedConversion: no rule connects a (host, foreign, direction) triple
	ErrUnresolvedConversion = errors.New("unresolved conversion")

	// ErrCapabilityMismatch: a host type lacks a required capability
	ErrCapabilityMismatch = errors.New("capability mismatch")

	// ErrInvalidDeclaration: malformed typemap input
	ErrInvalidDeclaration = errors.New("invalid declaration")
)

// Note is one located message of a diagnostic.
type Note struct {
	Span    Span   `json:"span"`
	Message string `json:"message"`
}

// Error is a diagnostic: the first note is the primary location, the rest are
// secondary sites (for duplicates, the second mention).
type Error struct {
	kind  error
	notes []Note
}

// New creates a diagnostic of the given kind with its primary note.
func New(kind error, sp Span, format string, args ...interface{}) *Error {
	return &Error{
		kind:  kind,
		notes: []Note{{Span: sp, Message: fmt.Sprintf(format, args...)}},
	}
}

// SpanNote appends a secondary note in place.
func (e *Error) SpanNote(sp Span, format string, args ...interface{}) {
	e.notes = append(e.notes, Note{Span: sp, Message: fmt.Sprintf(format, args...)})
}

// WithNote appends a secondary note and returns the diagnostic for chaining.
func (e *Error) WithNote(sp Span, format string, args ...interface{}) *Error {
	e.SpanNote(sp, format, args...)
	return e
}

// Kind returns the sentinel this diagnostic is tagged with.
func (e *Error) Kind() error {
	return e.kind
}

// Notes returns a copy of all notes, primary first.
func (e *Error) Notes() []Note {
	out := make([]Note, len(e.notes))
	copy(out, e.notes)
	return out
}

// Primary returns the first note.
func (e *Error) Primary() Note {
	return e.notes[0]
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.notes))
	for _, n := range e.notes {
		if n.Span.IsValid() {
			parts = append(parts, n.Span.String()+": "+n.Message)
		} else {
			parts = append(parts, n.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the kind so errors.Is(err, ErrDuplicateDeclaration) works.
func (e *Error) Unwrap() error {
	return e.kind
}

// FromError converts any error into a diagnostic. Diagnostics pass through
// unchanged; other errors become an ErrInvalidDeclaration note at sp.
func FromError(err error, sp Span) *Error {
	var d *Error
	if errors.As(err, &d) {
		return d
	}
	return New(ErrInvalidDeclaration, sp, "%s", err.Error())
}
