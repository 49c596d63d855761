package typemap

import (
	"fmt"
	"iter"
	"strings"

	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/errors"
)

// ForeignType is a stable index into the foreign type arena.
type ForeignType int32

// TypeName is a foreign type name and where it was (last) declared.
type TypeName struct {
	Name string
	Span diag.Span
}

// NewTypeName builds a TypeName.
func NewTypeName(name string, sp diag.Span) TypeName {
	return TypeName{Name: name, Span: sp}
}

func (tn TypeName) String() string {
	return tn.Name
}

// ForeignTypeRecord is one foreign type with a rule per direction. A nil rule
// means the type cannot cross the boundary that way.
type ForeignTypeRecord struct {
	Name     TypeName
	IntoHost *ConversionRule
	FromHost *ConversionRule
}

// Rule returns the rule for dir, nil if absent.
func (r *ForeignTypeRecord) Rule(dir Direction) *ConversionRule {
	if dir == IntoHost {
		return r.IntoHost
	}
	return r.FromHost
}

// IsPlaceholder reports whether the record was only named, never given a rule.
func (r *ForeignTypeRecord) IsPlaceholder() bool {
	return r.IntoHost == nil && r.FromHost == nil
}

func (r *ForeignTypeRecord) setRule(dir Direction, rule *ConversionRule) {
	if dir == IntoHost {
		r.IntoHost = rule
	} else {
		r.FromHost = rule
	}
}

// ForeignTypes owns every foreign type record. Strict declaration and lazy
// lookup share one name map, so a name always has at most one record.
type ForeignTypes struct {
	records []ForeignTypeRecord
	byName  map[string]ForeignType
}

// NewForeignTypes creates empty storage.
func NewForeignTypes() *ForeignTypes {
	return &ForeignTypes{
		records: make([]ForeignTypeRecord, 0, 100),
		byName:  make(map[string]ForeignType),
	}
}

// DeclareStrict registers tn as a foreign type bound to one host node in both
// directions, without an intermediate step.
//
// A record created earlier by FindOrCreate that still has no rules is promoted
// in place: same index, rules attached, name span moved to this declaration.
// Any other existing record is a duplicate declaration.
func (s *ForeignTypes) DeclareStrict(tn TypeName, bound NodeIndex) (ForeignType, error) {
	if ft, ok := s.byName[tn.Name]; ok {
		rec := &s.records[ft]
		if !rec.IsPlaceholder() {
			return ft, diag.New(diag.ErrDuplicateDeclaration, rec.Name.Span,
				"type %s already defined here", tn.Name).
				WithNote(tn.Span, "second mention of type %s", tn.Name)
		}
		rec.Name = tn
		rec.IntoHost = Direct(bound).At(tn.Span)
		rec.FromHost = Direct(bound).At(tn.Span)
		return ft, nil
	}

	return s.add(ForeignTypeRecord{
		Name:     tn,
		IntoHost: Direct(bound).At(tn.Span),
		FromHost: Direct(bound).At(tn.Span),
	}), nil
}

// FindOrCreate returns the record named tn, creating an empty one if needed.
// Never fails.
func (s *ForeignTypes) FindOrCreate(tn TypeName) ForeignType {
	if ft, ok := s.byName[tn.Name]; ok {
		return ft
	}
	return s.add(ForeignTypeRecord{Name: tn})
}

// SetRule attaches rule to one direction of ft. A direction that already has
// a rule is a duplicate declaration naming both rule sites.
func (s *ForeignTypes) SetRule(ft ForeignType, dir Direction, rule *ConversionRule) error {
	rec := s.At(ft)
	if rule == nil {
		return errors.NewInvalidInputError("nil %s rule for foreign type %s", dir, rec.Name)
	}
	if prev := rec.Rule(dir); prev != nil {
		return diag.New(diag.ErrDuplicateDeclaration, prev.Span,
			"%s rule for type %s already defined here", dir, rec.Name).
			WithNote(rule.Span, "second %s rule for type %s", dir, rec.Name)
	}
	rec.setRule(dir, rule.clone())
	return nil
}

// Lookup finds a foreign type by exact name.
func (s *ForeignTypes) Lookup(name string) (ForeignType, bool) {
	ft, ok := s.byName[name]
	return ft, ok
}

// At gives direct access to a record. An index this storage never issued is
// a programming error.
func (s *ForeignTypes) At(ft ForeignType) *ForeignTypeRecord {
	if ft < 0 || int(ft) >= len(s.records) {
		panic(errors.AssertionFailedf("foreign type index %d was never issued (storage has %d)", ft, len(s.records)))
	}
	return &s.records[ft]
}

// Len returns the number of records.
func (s *ForeignTypes) Len() int {
	return len(s.records)
}

// All iterates records by reference in creation order.
func (s *ForeignTypes) All() iter.Seq2[ForeignType, *ForeignTypeRecord] {
	return func(yield func(ForeignType, *ForeignTypeRecord) bool) {
		for i := range s.records {
			if !yield(ForeignType(i), &s.records[i]) {
				return
			}
		}
	}
}

// Drain hands every record to the caller and leaves the storage empty.
func (s *ForeignTypes) Drain() []ForeignTypeRecord {
	out := s.records
	s.records = make([]ForeignTypeRecord, 0, 100)
	s.byName = make(map[string]ForeignType)
	return out
}

func (s *ForeignTypes) String() string {
	var b strings.Builder
	b.WriteString("Foreign types begin\n")
	for i := range s.records {
		fmt.Fprintln(&b, s.records[i].Name.Name)
	}
	b.WriteString("Foreign types end\n")
	return b.String()
}

func (s *ForeignTypes) add(rec ForeignTypeRecord) ForeignType {
	ft := ForeignType(len(s.records))
	s.records = append(s.records, rec)
	s.byName[rec.Name.Name] = ft
	return ft
}
