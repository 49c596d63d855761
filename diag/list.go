package diag

import (
	"strings"

	"github.com/teranos/bindgen/errors"
)

// List accumulates diagnostics so a pass can report everything it found
// instead of stopping at the first problem.
type List struct {
	errs []*Error
}

// Add records err. nil is ignored; non-diagnostic errors are converted with no
// location; a nested List is flattened.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	var nested *List
	if errors.As(err, &nested) {
		l.errs = append(l.errs, nested.errs...)
		return
	}
	l.errs = append(l.errs, FromError(err, NoSpan()))
}

// Len returns the number of diagnostics collected.
func (l *List) Len() int {
	return len(l.errs)
}

// Errors returns the collected diagnostics in report order.
func (l *List) Errors() []*Error {
	out := make([]*Error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Has reports whether any collected diagnostic is of the given kind.
func (l *List) Has(kind error) bool {
	for _, e := range l.errs {
		if errors.Is(e, kind) {
			return true
		}
	}
	return false
}

// Err returns nil when empty, otherwise the list itself as an error.
func (l *List) Err() error {
	if l == nil || len(l.errs) == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	msgs := make([]string, 0, len(l.errs))
	for _, e := range l.errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes every collected diagnostic to errors.Is/As.
func (l *List) Unwrap() []error {
	out := make([]error, 0, len(l.errs))
	for _, e := range l.errs {
		out = append(out, e)
	}
	return out
}
