package typemap

import (
	"go/ast"
	"iter"

	"github.com/teranos/bindgen/errors"
)

// HostType is a stable handle to an interned host type record. Every holder
// (rules, generated-code consumers) stores the handle, never the record.
type HostType int32

// HostTypeRecord is one host-language type as the registry knows it.
type HostTypeRecord struct {
	// Expr is the syntactic expression the type was last seen as
	Expr ast.Expr
	// NormalizedName is the lookup key (see NormalizeExpr)
	NormalizedName string
	// Implements lists the capabilities the type is known to satisfy
	Implements CapabilitySet
	// Node is the type's conversion graph node, assigned once at creation
	Node NodeIndex
}

func (r HostTypeRecord) String() string {
	return r.NormalizedName
}

// HostTypes is the host type registry: an append-only arena of records keyed
// by normalized name. Records are only mutated through Intern, Merge and
// Annotate; readers get copies.
type HostTypes struct {
	records []HostTypeRecord
	byName  map[string]HostType
	graph   *Graph
}

// NewHostTypes creates a registry whose records get their nodes from g.
func NewHostTypes(g *Graph) *HostTypes {
	return &HostTypes{
		byName: make(map[string]HostType),
		graph:  g,
	}
}

// Intern returns the canonical record for normalizedName. An existing record
// is merged with the new expression and capabilities; otherwise a new record
// is allocated and bound to a fresh graph node.
func (h *HostTypes) Intern(expr ast.Expr, normalizedName string, caps ...string) HostType {
	if ht, ok := h.byName[normalizedName]; ok {
		h.Merge(ht, expr, normalizedName, NewCapabilitySet(caps...))
		return ht
	}
	return h.alloc(expr, normalizedName, caps)
}

// InternDistinct always allocates a new record and node, even when the name is
// already known. The name then resolves to the new record; the old handle and
// its node stay valid.
func (h *HostTypes) InternDistinct(expr ast.Expr, normalizedName string, caps ...string) HostType {
	return h.alloc(expr, normalizedName, caps)
}

func (h *HostTypes) alloc(expr ast.Expr, normalizedName string, caps []string) HostType {
	ht := HostType(len(h.records))
	h.records = append(h.records, HostTypeRecord{
		Expr:           expr,
		NormalizedName: normalizedName,
		Implements:     NewCapabilitySet(caps...),
		Node:           h.graph.AddNode(ht),
	})
	h.byName[normalizedName] = ht
	return ht
}

// Merge replaces the record's expression and name with the incoming ones and
// unions the capabilities. The graph node never changes. Renaming a record onto
// a name held by another record panics: only InternDistinct may give a second
// record the same name.
func (h *HostTypes) Merge(ht HostType, expr ast.Expr, normalizedName string, caps CapabilitySet) {
	rec := h.at(ht)
	if normalizedName != rec.NormalizedName {
		if other, ok := h.byName[normalizedName]; ok && other != ht {
			panic(errors.AssertionFailedf("cannot rename host type %d to %q: name belongs to host type %d",
				ht, normalizedName, other))
		}
		if owner, ok := h.byName[rec.NormalizedName]; ok && owner == ht {
			delete(h.byName, rec.NormalizedName)
		}
		rec.NormalizedName = normalizedName
		h.byName[normalizedName] = ht
	}
	if expr != nil {
		rec.Expr = expr
	}
	rec.Implements.InsertSet(caps)
}

// Annotate records that ht satisfies capability. Idempotent.
func (h *HostTypes) Annotate(ht HostType, capability string) {
	h.at(ht).Implements.Insert(capability)
}

// Satisfies reports whether ht holds every required capability (matched by
// trailing identifier). The empty requirement is always satisfied.
func (h *HostTypes) Satisfies(ht HostType, req RequiredCapabilities) bool {
	return h.at(ht).Implements.ContainsSubset(req)
}

// Lookup finds the record currently registered under normalizedName.
func (h *HostTypes) Lookup(normalizedName string) (HostType, bool) {
	ht, ok := h.byName[normalizedName]
	return ht, ok
}

// Get returns a copy of the record.
func (h *HostTypes) Get(ht HostType) HostTypeRecord {
	rec := *h.at(ht)
	rec.Implements = rec.Implements.Clone()
	return rec
}

// Node returns the graph node of ht.
func (h *HostTypes) Node(ht HostType) NodeIndex {
	return h.at(ht).Node
}

// Name returns the normalized name of ht.
func (h *HostTypes) Name(ht HostType) string {
	return h.at(ht).NormalizedName
}

// Len returns the number of records ever allocated.
func (h *HostTypes) Len() int {
	return len(h.records)
}

// All iterates records in allocation order.
func (h *HostTypes) All() iter.Seq2[HostType, HostTypeRecord] {
	return func(yield func(HostType, HostTypeRecord) bool) {
		for i := range h.records {
			if !yield(HostType(i), h.Get(HostType(i))) {
				return
			}
		}
	}
}

func (h *HostTypes) at(ht HostType) *HostTypeRecord {
	if ht < 0 || int(ht) >= len(h.records) {
		panic(errors.AssertionFailedf("host type handle %d was never issued (registry has %d)", ht, len(h.records)))
	}
	return &h.records[ht]
}
