package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func mustParse(t *testing.T, src string) (exprName string, h func(*HostTypes, ...string) HostType) {
	t.Helper()
	expr, name, err := NormalizeString(src)
	require.NoError(t, err)
	return name, func(reg *HostTypes, caps ...string) HostType {
		return reg.Intern(expr, name, caps...)
	}
}

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Point", "Point"},
		{"[] * Point", "[]*Point"},
		{"(Point)", "Point"},
		{"map[string]  int", "map[string]int"},
		{"C.int", "C.int"},
		{"*bytes.Buffer", "*bytes.Buffer"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, name, err := NormalizeString(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}

	_, _, err := NormalizeString("  ")
	assert.Error(t, err)
	_, _, err = NormalizeString("[]*")
	assert.Error(t, err)
}

func TestParseTypeExpr_RejectsValues(t *testing.T) {
	valid := []string{
		"Point", "*bytes.Buffer", "[4]byte", "[]*Point", "map[string][]int",
		"chan<- error", "func(int) error", "interface{ String() string }",
		"struct{ X int }", "List[int]", "Pair[string, *Point]",
	}
	for _, src := range valid {
		_, err := ParseTypeExpr(src)
		assert.NoError(t, err, src)
	}

	invalid := []string{
		"1 + f(x)", "f(x)", "42", `"Point"`, "Point{}", "&Point", "-x",
		"[]f(x)", "a.b.C", "x.(T)", "func() {}",
	}
	for _, src := range invalid {
		_, err := ParseTypeExpr(src)
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput), src)
	}
}

func TestHostTypes_MergeIsIdempotent(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	_, intern := mustParse(t, "Point")

	a := intern(reg)
	b := intern(reg)
	c := intern(reg)

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "Point", reg.Name(a))
}

func TestHostTypes_CapabilitiesAccumulate(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	_, intern := mustParse(t, "Point")

	ht := intern(reg, "Clone")
	intern(reg, "Copy", "Clone")
	reg.Annotate(ht, "Stringer")
	reg.Annotate(ht, "Stringer")

	assert.Equal(t, []string{"Clone", "Copy", "Stringer"}, reg.Get(ht).Implements.Names())
}

func TestHostTypes_SpellingsShareRecord(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	_, a := mustParse(t, "[]*Point")
	_, b := mustParse(t, "([] *  Point)")

	assert.Equal(t, a(reg), b(reg))
	assert.Equal(t, 1, reg.Len())
}

func TestHostTypes_InternDistinct(t *testing.T) {
	g := NewGraph()
	reg := NewHostTypes(g)
	_, intern := mustParse(t, "Point")

	first := intern(reg)
	expr, _ := ParseTypeExpr("Point")
	second := reg.InternDistinct(expr, "Point")

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, reg.Node(first), reg.Node(second))
	got, ok := reg.Lookup("Point")
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Equal(t, 2, g.NodeCount())
}

func TestHostTypes_NodeStableAcrossMerge(t *testing.T) {
	g := NewGraph()
	reg := NewHostTypes(g)
	_, intern := mustParse(t, "Point")

	ht := intern(reg)
	node := reg.Node(ht)
	expr, _ := ParseTypeExpr("(Point)")
	reg.Merge(ht, expr, "Point", NewCapabilitySet("Copy"))
	intern(reg, "Clone")

	assert.Equal(t, node, reg.Node(ht))
	assert.Equal(t, ht, g.Host(node))
	assert.Equal(t, 1, g.NodeCount())
}

func TestHostTypes_MergeRename(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	_, point := mustParse(t, "Point")
	_, other := mustParse(t, "Other")
	p := point(reg)
	o := other(reg)

	expr, _ := ParseTypeExpr("Renamed")
	reg.Merge(p, expr, "Renamed", CapabilitySet{})

	got, ok := reg.Lookup("Renamed")
	require.True(t, ok)
	assert.Equal(t, p, got)
	_, ok = reg.Lookup("Point")
	assert.False(t, ok, "old name must not resolve to the renamed record")
	assert.Equal(t, "Renamed", reg.Name(p))

	// taking a name held by another record breaks one-name-one-type
	otherExpr, _ := ParseTypeExpr("Other")
	assert.Panics(t, func() { reg.Merge(p, otherExpr, "Other", CapabilitySet{}) })
	got, ok = reg.Lookup("Other")
	require.True(t, ok)
	assert.Equal(t, o, got)
	assert.Equal(t, "Renamed", reg.Name(p))
}

func TestHostTypes_MergeRenameAfterDistinct(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	expr, name, err := NormalizeString("Point")
	require.NoError(t, err)
	first := reg.Intern(expr, name)
	second := reg.InternDistinct(expr, name)

	// first no longer owns "Point"; renaming it leaves second reachable
	renamed, _ := ParseTypeExpr("OldPoint")
	reg.Merge(first, renamed, "OldPoint", CapabilitySet{})

	got, ok := reg.Lookup("Point")
	require.True(t, ok)
	assert.Equal(t, second, got)
	got, ok = reg.Lookup("OldPoint")
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestHostTypes_GetReturnsCopy(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	_, intern := mustParse(t, "Point")
	ht := intern(reg, "Clone")

	rec := reg.Get(ht)
	rec.Implements.Insert("Copy")

	assert.False(t, reg.Get(ht).Implements.Contains("Copy"))
}

func TestHostTypes_Satisfies(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	_, intern := mustParse(t, "Point")
	ht := intern(reg, "Clone", "Stringer")

	assert.True(t, reg.Satisfies(ht, Require()))
	assert.True(t, reg.Satisfies(ht, Require("Clone")))
	assert.True(t, reg.Satisfies(ht, Require("fmt.Stringer", "foo::Clone")))
	assert.False(t, reg.Satisfies(ht, Require("Clone", "io.Writer")))
}

func TestHostTypes_AllInAllocationOrder(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	for _, src := range []string{"A", "B", "C", "A"} {
		_, intern := mustParse(t, src)
		intern(reg)
	}

	var names []string
	for _, rec := range reg.All() {
		names = append(names, rec.NormalizedName)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestHostTypes_UnknownHandlePanics(t *testing.T) {
	reg := NewHostTypes(NewGraph())
	assert.Panics(t, func() { reg.Node(HostType(3)) })
	assert.Panics(t, func() { reg.Annotate(HostType(-1), "Copy") })
}

func TestCapabilityPath(t *testing.T) {
	tests := []struct {
		in        string
		ident     string
		qualifier string
	}{
		{"Copy", "Copy", ""},
		{"fmt.Stringer", "Stringer", "fmt"},
		{"encoding/json.Marshaler", "Marshaler", "encoding/json"},
		{"gopkg.in/yaml.v3.Marshaler", "Marshaler", "gopkg.in/yaml.v3"},
		{"foo::bar::Baz", "Baz", "foo.bar"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := ParseCapabilityPath(tt.in)
			assert.Equal(t, tt.ident, p.Ident())
			assert.Equal(t, tt.qualifier, p.Qualifier())
		})
	}
}

func TestCapabilitySet_Missing(t *testing.T) {
	s := NewCapabilitySet("Clone", "Clone", "Stringer")
	assert.Equal(t, 2, s.Len())

	req := Require("Clone", "io.Writer", "io.Writer", "foo::Writer", "Reader")
	missing := s.Missing(req)

	var got []string
	for _, p := range missing {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"io.Writer", "foo.Writer", "Reader"}, got)
}

func TestPathFromExpr(t *testing.T) {
	expr, err := ParseTypeExpr("io.Writer")
	require.NoError(t, err)
	p, ok := PathFromExpr(expr)
	require.True(t, ok)
	assert.Equal(t, []string{"io", "Writer"}, p.Segments)

	expr, err = ParseTypeExpr("[]int")
	require.NoError(t, err)
	_, ok = PathFromExpr(expr)
	assert.False(t, ok)
}
