package typemap

import (
	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/errors"
)

// Direction is the side a value starts on when it crosses the boundary.
type Direction int

const (
	// IntoHost converts a foreign value into a host type
	IntoHost Direction = iota
	// FromHost converts a host value into a foreign type
	FromHost
)

func (d Direction) String() string {
	switch d {
	case IntoHost:
		return "into_host"
	case FromHost:
		return "from_host"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "into_host"/"into"/"in" and "from_host"/"from"/"out".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "into_host", "into-host", "into", "in":
		return IntoHost, nil
	case "from_host", "from-host", "from", "out":
		return FromHost, nil
	default:
		return 0, errors.NewInvalidInputError("unknown direction %q (want into_host or from_host)", s)
	}
}

// ConversionRule is one way to convert between a foreign type and a host type.
// Without an intermediate step the conversion is direct.
type ConversionRule struct {
	// HostNode is the host type the foreign type converts through
	HostNode NodeIndex
	// Intermediate, when set, splits the conversion in two hops
	Intermediate *Intermediate
	// Span is where the rule was declared
	Span diag.Span
}

// Intermediate is the transitional type of a two-stage conversion. ConvCode
// only covers the host <-> intermediate hop; the intermediate <-> foreign hop
// is shared by every foreign type using the same intermediate node.
type Intermediate struct {
	Node     NodeIndex
	ConvCode string
}

// Direct returns a rule with no intermediate step.
func Direct(host NodeIndex) *ConversionRule {
	return &ConversionRule{HostNode: host}
}

// Via returns a two-stage rule through the intermediate node.
func Via(host, intermediate NodeIndex, code string) *ConversionRule {
	return &ConversionRule{
		HostNode:     host,
		Intermediate: &Intermediate{Node: intermediate, ConvCode: code},
	}
}

// At returns a copy of the rule with its declaration span set.
func (r *ConversionRule) At(sp diag.Span) *ConversionRule {
	c := r.clone()
	c.Span = sp
	return c
}

// IsDirect reports whether the rule has no intermediate step.
func (r *ConversionRule) IsDirect() bool {
	return r.Intermediate == nil
}

func (r *ConversionRule) clone() *ConversionRule {
	if r == nil {
		return nil
	}
	c := *r
	if r.Intermediate != nil {
		im := *r.Intermediate
		c.Intermediate = &im
	}
	return &c
}
