package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/typemap"
)

func buildMap(t *testing.T) (*typemap.TypeMap, *diag.SourceRegistry) {
	t.Helper()
	tm := typemap.New(zap.NewNop().Sugar())
	sources := diag.NewSourceRegistry()
	src := sources.Register(diag.SourceCode{Name: "types.yaml", Code: "..."})

	point, err := tm.InternHostString("Point", "Clone")
	require.NoError(t, err)
	i32, err := tm.InternHostString("int32")
	require.NoError(t, err)
	i64, err := tm.InternHostString("int64")
	require.NoError(t, err)
	cint, err := tm.InternHostString("C.int")
	require.NoError(t, err)
	tm.AddConversion(i64, i32, "int32({from})")

	_, err = tm.DeclareStrict(typemap.NewTypeName("FPoint", diag.SpanAt(src, 3, 5, 6)), point)
	require.NoError(t, err)

	jint := tm.FindOrCreate(typemap.NewTypeName("jint", diag.NoSpan()))
	rule := typemap.Via(tm.Hosts().Node(i32), tm.Hosts().Node(cint), "C.int({from})")
	require.NoError(t, tm.SetRule(jint, typemap.FromHost, rule))

	tm.FindOrCreate(typemap.NewTypeName("Later", diag.NoSpan()))
	return tm, sources
}

func TestBuild(t *testing.T) {
	tm, sources := buildMap(t)
	g := Build(tm, sources)

	require.Len(t, g.Nodes, 7)
	assert.Equal(t, "host_0_point", g.Nodes[0].ID)
	assert.Equal(t, []string{"Clone"}, g.Nodes[0].Capabilities)
	assert.Equal(t, "host_3_c_int", g.Nodes[3].ID)
	assert.Equal(t, NodeForeign, g.Nodes[4].Type)
	assert.Equal(t, "types.yaml:3:5", g.Nodes[4].Location)
	assert.Equal(t, "", g.Nodes[5].Location)

	// edge, FPoint into+from, jint intermediate + from_host
	require.Len(t, g.Links, 5)
	assert.Equal(t, Link{Source: "host_2_int64", Target: "host_1_int32", Type: LinkConvertsTo, Code: "int32({from})"}, g.Links[0])
	assert.Equal(t, Link{Source: "foreign_0_fpoint", Target: "host_0_point", Type: LinkIntoHost}, g.Links[1])
	assert.Equal(t, Link{Source: "host_0_point", Target: "foreign_0_fpoint", Type: LinkFromHost}, g.Links[2])
	assert.Equal(t, Link{Source: "host_1_int32", Target: "host_3_c_int", Type: LinkIntermediate, Code: "C.int({from})"}, g.Links[3])
	assert.Equal(t, Link{Source: "host_3_c_int", Target: "foreign_1_jint", Type: LinkFromHost}, g.Links[4])

	assert.Equal(t, 7, g.Meta.Stats.TotalNodes)
	assert.Equal(t, 5, g.Meta.Stats.TotalEdges)
	assert.Equal(t, 1, g.Meta.Stats.Placeholder)
	assert.Equal(t, []NodeTypeInfo{
		{Type: NodeForeign, Label: "Foreign type", Count: 3},
		{Type: NodeHost, Label: "Host type", Count: 4},
	}, g.Meta.NodeTypes)
}

func TestBuild_JSONShape(t *testing.T) {
	tm, sources := buildMap(t)
	data, err := json.Marshal(Build(tm, sources))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "nodes")
	assert.Contains(t, decoded, "links")
	meta := decoded["meta"].(map[string]interface{})
	assert.Contains(t, meta, "stats")
}

func TestNormalizeNodeID(t *testing.T) {
	assert.Equal(t, "host_2__bytes_buffer", normalizeNodeID(NodeHost, 2, "*bytes.Buffer"))
	assert.Equal(t, "host_0_map_string_int", normalizeNodeID(NodeHost, 0, "map[string]int"))
}
