package diag

import "fmt"

// SourceID identifies one registered source unit (a typemap file, a Go file).
// The zero value means "no source information".
type SourceID uint32

// NoSource marks a diagnostic note without location information.
const NoSource SourceID = 0

// Position is a 1-based line/column location. Line 0 means unknown.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open region of one source unit.
type Span struct {
	Source SourceID `json:"source"`
	Start  Position `json:"start"`
	End    Position `json:"end"`
}

// NoSpan returns a span carrying no location information.
func NoSpan() Span {
	return Span{}
}

// SpanAt builds a single-line span of the given width.
func SpanAt(src SourceID, line, column, width int) Span {
	if width < 1 {
		width = 1
	}
	return Span{
		Source: src,
		Start:  Position{Line: line, Column: column},
		End:    Position{Line: line, Column: column + width},
	}
}

// IsValid reports whether the span points into a registered source.
func (s Span) IsValid() bool {
	return s.Source != NoSource && s.Start.Line > 0
}

func (s Span) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// SourceCode is the raw text of one source unit and its display name.
type SourceCode struct {
	Name string
	Code string
}

// SourceRegistry maps source ids to names and text so diagnostics can print
// the offending lines. IDs are never reused.
type SourceRegistry struct {
	sources []SourceCode
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{}
}

// Register adds a source unit and returns its id.
func (r *SourceRegistry) Register(src SourceCode) SourceID {
	r.sources = append(r.sources, src)
	return SourceID(len(r.sources))
}

// Source returns the unit registered under id.
func (r *SourceRegistry) Source(id SourceID) (SourceCode, bool) {
	if r == nil || id == NoSource || int(id) > len(r.sources) {
		return SourceCode{}, false
	}
	return r.sources[id-1], true
}

// Len returns the number of registered sources.
func (r *SourceRegistry) Len() int {
	return len(r.sources)
}
