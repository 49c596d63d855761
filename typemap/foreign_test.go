package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/errors"
)

func span(line int) diag.Span {
	return diag.SpanAt(1, line, 3, 6)
}

func TestForeignTypes_StrictDuplicate(t *testing.T) {
	s := NewForeignTypes()
	ft, err := s.DeclareStrict(NewTypeName("FPoint", span(1)), 0)
	require.NoError(t, err)

	again, err := s.DeclareStrict(NewTypeName("FPoint", span(7)), 0)
	require.Error(t, err)
	assert.Equal(t, ft, again)
	assert.True(t, errors.Is(err, diag.ErrDuplicateDeclaration))

	var d *diag.Error
	require.True(t, errors.As(err, &d))
	notes := d.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, span(1), notes[0].Span)
	assert.Equal(t, "type FPoint already defined here", notes[0].Message)
	assert.Equal(t, span(7), notes[1].Span)
	assert.Equal(t, "second mention of type FPoint", notes[1].Message)
	assert.Equal(t, 1, s.Len())
}

func TestForeignTypes_StrictThenLazy(t *testing.T) {
	s := NewForeignTypes()
	ft, err := s.DeclareStrict(NewTypeName("FPoint", span(1)), 4)
	require.NoError(t, err)

	lazy := s.FindOrCreate(NewTypeName("FPoint", span(9)))
	assert.Equal(t, ft, lazy)
	assert.Equal(t, 1, s.Len())

	rec := s.At(ft)
	assert.Equal(t, span(1), rec.Name.Span)
	require.NotNil(t, rec.IntoHost)
	assert.Equal(t, NodeIndex(4), rec.IntoHost.HostNode)
}

func TestForeignTypes_LazyThenStrictPromotes(t *testing.T) {
	s := NewForeignTypes()
	lazy := s.FindOrCreate(NewTypeName("FPoint", span(2)))
	assert.True(t, s.At(lazy).IsPlaceholder())

	ft, err := s.DeclareStrict(NewTypeName("FPoint", span(5)), 3)
	require.NoError(t, err)
	assert.Equal(t, lazy, ft)
	assert.Equal(t, 1, s.Len())

	rec := s.At(ft)
	assert.False(t, rec.IsPlaceholder())
	assert.Equal(t, span(5), rec.Name.Span)
	require.NotNil(t, rec.IntoHost)
	require.NotNil(t, rec.FromHost)
	assert.Equal(t, NodeIndex(3), rec.IntoHost.HostNode)
	assert.True(t, rec.FromHost.IsDirect())
}

func TestForeignTypes_StrictAfterRuleIsDuplicate(t *testing.T) {
	s := NewForeignTypes()
	ft := s.FindOrCreate(NewTypeName("jint", span(1)))
	require.NoError(t, s.SetRule(ft, IntoHost, Direct(0).At(span(2))))

	_, err := s.DeclareStrict(NewTypeName("jint", span(6)), 0)
	assert.True(t, errors.Is(err, diag.ErrDuplicateDeclaration))
}

func TestForeignTypes_SetRule(t *testing.T) {
	s := NewForeignTypes()
	ft := s.FindOrCreate(NewTypeName("jint", span(1)))

	require.NoError(t, s.SetRule(ft, FromHost, Via(0, 1, "C.int({from})").At(span(3))))
	rec := s.At(ft)
	assert.Nil(t, rec.IntoHost)
	require.NotNil(t, rec.FromHost)
	assert.Equal(t, "C.int({from})", rec.FromHost.Intermediate.ConvCode)

	err := s.SetRule(ft, FromHost, Direct(0).At(span(8)))
	require.Error(t, err)
	var d *diag.Error
	require.True(t, errors.As(err, &d))
	assert.Equal(t, span(3), d.Primary().Span)
	assert.Equal(t, span(8), d.Notes()[1].Span)

	assert.Error(t, s.SetRule(ft, IntoHost, nil))
}

func TestForeignTypes_LookupAndAt(t *testing.T) {
	s := NewForeignTypes()
	_, ok := s.Lookup("FPoint")
	assert.False(t, ok)

	ft := s.FindOrCreate(NewTypeName("FPoint", span(1)))
	got, ok := s.Lookup("FPoint")
	require.True(t, ok)
	assert.Equal(t, ft, got)

	assert.Panics(t, func() { s.At(ForeignType(5)) })
	assert.Panics(t, func() { s.At(ForeignType(-1)) })
}

func TestForeignTypes_IterateAndDrain(t *testing.T) {
	s := NewForeignTypes()
	for _, n := range []string{"A", "B", "C"} {
		s.FindOrCreate(NewTypeName(n, diag.NoSpan()))
	}

	var names []string
	for _, rec := range s.All() {
		names = append(names, rec.Name.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Equal(t, "Foreign types begin\nA\nB\nC\nForeign types end\n", s.String())

	drained := s.Drain()
	assert.Len(t, drained, 3)
	assert.Equal(t, 0, s.Len())
	_, ok := s.Lookup("A")
	assert.False(t, ok)
}

func TestDirection_Parse(t *testing.T) {
	d, err := ParseDirection("into")
	require.NoError(t, err)
	assert.Equal(t, IntoHost, d)

	d, err = ParseDirection("from_host")
	require.NoError(t, err)
	assert.Equal(t, FromHost, d)
	assert.Equal(t, "from_host", d.String())

	_, err = ParseDirection("sideways")
	assert.True(t, errors.IsInvalidInputError(err))
}
