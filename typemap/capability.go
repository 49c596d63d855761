package typemap

import (
	"go/ast"
	"strings"
)

// CapabilitySet is the insertion-ordered set of capability names a host type
// is known to satisfy (interfaces it implements, markers like "Copy").
type CapabilitySet struct {
	names []string
}

// NewCapabilitySet builds a set from names, dropping duplicates.
func NewCapabilitySet(names ...string) CapabilitySet {
	var s CapabilitySet
	for _, n := range names {
		s.Insert(n)
	}
	return s
}

// Insert adds name unless it is already present.
func (s *CapabilitySet) Insert(name string) {
	if !s.Contains(name) {
		s.names = append(s.names, name)
	}
}

// InsertSet adds every name of o, keeping o's order for new names.
func (s *CapabilitySet) InsertSet(o CapabilitySet) {
	for _, n := range o.names {
		s.Insert(n)
	}
}

// Contains is exact-name membership.
func (s CapabilitySet) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// ContainsSubset reports whether every required path is satisfied. A path is
// satisfied by a held capability equal to its trailing identifier, so
// "fmt.Stringer" and "foo::Stringer" are both met by "Stringer".
func (s CapabilitySet) ContainsSubset(req RequiredCapabilities) bool {
	return len(s.Missing(req)) == 0
}

// Missing returns the required paths no held capability satisfies.
func (s CapabilitySet) Missing(req RequiredCapabilities) []CapabilityPath {
	var missing []CapabilityPath
	for _, p := range req.paths {
		if !s.Contains(p.Ident()) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Len returns the number of capabilities held.
func (s CapabilitySet) Len() int {
	return len(s.names)
}

// Names returns the capabilities in insertion order.
func (s CapabilitySet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Clone returns an independent copy.
func (s CapabilitySet) Clone() CapabilitySet {
	return CapabilitySet{names: s.Names()}
}

// CapabilityPath is a possibly qualified capability name: "Copy",
// "fmt.Stringer", "encoding/json.Marshaler" or "foo::Bar".
type CapabilityPath struct {
	Segments []string
}

// ParseCapabilityPath splits a written capability name into segments.
// "::" separates segments when present; otherwise the import path (which may
// itself contain dots) is split from the name at the last dot after the last
// slash.
func ParseCapabilityPath(s string) CapabilityPath {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "::") {
		var segs []string
		for _, seg := range strings.Split(s, "::") {
			if seg != "" {
				segs = append(segs, seg)
			}
		}
		return CapabilityPath{Segments: segs}
	}

	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s, ".")
	if dot > slash && dot > 0 {
		return CapabilityPath{Segments: []string{s[:dot], s[dot+1:]}}
	}
	return CapabilityPath{Segments: []string{s}}
}

// PathFromExpr converts a Go identifier or selector expression (Stringer,
// fmt.Stringer) to a capability path. ok is false for any other expression.
func PathFromExpr(expr ast.Expr) (CapabilityPath, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return CapabilityPath{Segments: []string{e.Name}}, true
	case *ast.SelectorExpr:
		base, ok := PathFromExpr(e.X)
		if !ok {
			return CapabilityPath{}, false
		}
		return CapabilityPath{Segments: append(base.Segments, e.Sel.Name)}, true
	default:
		return CapabilityPath{}, false
	}
}

// Ident returns the trailing identifier, the only part used for matching.
func (p CapabilityPath) Ident() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Qualifier returns everything before the trailing identifier.
func (p CapabilityPath) Qualifier() string {
	if len(p.Segments) < 2 {
		return ""
	}
	return strings.Join(p.Segments[:len(p.Segments)-1], ".")
}

// Equal is full-path equality.
func (p CapabilityPath) Equal(o CapabilityPath) bool {
	if len(p.Segments) != len(o.Segments) {
		return false
	}
	for i := range p.Segments {
		if p.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}

func (p CapabilityPath) String() string {
	if q := p.Qualifier(); q != "" {
		return q + "." + p.Ident()
	}
	return p.Ident()
}

// RequiredCapabilities is the set of capability paths an operation demands.
type RequiredCapabilities struct {
	paths []CapabilityPath
}

// Require builds a requirement set from written capability names.
func Require(names ...string) RequiredCapabilities {
	var r RequiredCapabilities
	for _, n := range names {
		r.Insert(ParseCapabilityPath(n))
	}
	return r
}

// Insert adds p unless an equal full path is already present.
func (r *RequiredCapabilities) Insert(p CapabilityPath) {
	for _, it := range r.paths {
		if it.Equal(p) {
			return
		}
	}
	r.paths = append(r.paths, p)
}

// IsEmpty reports whether nothing is required.
func (r RequiredCapabilities) IsEmpty() bool {
	return len(r.paths) == 0
}

// Paths returns the required paths in insertion order.
func (r RequiredCapabilities) Paths() []CapabilityPath {
	out := make([]CapabilityPath, len(r.paths))
	copy(out, r.paths)
	return out
}
