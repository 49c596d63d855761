package typemap

import (
	"github.com/teranos/bindgen/errors"
)

// NodeIndex is a conversion graph node handle. Rules store node handles only,
// so the registry can merge records without touching edges.
type NodeIndex int32

// InvalidNode is the zero handle of nothing.
const InvalidNode NodeIndex = -1

// Edge is a directed host-to-host conversion with the code that performs it.
// Code uses {from} as the placeholder for the input value.
type Edge struct {
	From NodeIndex
	To   NodeIndex
	Code string
}

// Graph is the conversion rule graph. Nodes carry the host type they stand
// for; edges are direct conversions between host types. Foreign types are not
// nodes: their rules point at the host node they convert through.
type Graph struct {
	nodes []HostType
	out   [][]int // node -> indices into edges, insertion order
	edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode adds the node for ht. Called once per host type by the registry.
func (g *Graph) AddNode(ht HostType) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, ht)
	g.out = append(g.out, nil)
	return idx
}

// AddEdge adds a conversion from -> to. Adding an existing edge replaces its code.
func (g *Graph) AddEdge(from, to NodeIndex, code string) {
	g.check(from)
	g.check(to)
	for _, ei := range g.out[from] {
		if g.edges[ei].To == to {
			g.edges[ei].Code = code
			return
		}
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Code: code})
	g.out[from] = append(g.out[from], len(g.edges)-1)
}

// Edge returns the direct edge from -> to.
func (g *Graph) Edge(from, to NodeIndex) (Edge, bool) {
	g.check(from)
	for _, ei := range g.out[from] {
		if g.edges[ei].To == to {
			return g.edges[ei], true
		}
	}
	return Edge{}, false
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Host returns the host type a node stands for.
func (g *Graph) Host(n NodeIndex) HostType {
	g.check(n)
	return g.nodes[n]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// FindPath returns the fewest-hop chain of edges from -> to. The path is empty
// (and ok) when from == to. Ties are broken by edge insertion order, so the
// result is deterministic.
func (g *Graph) FindPath(from, to NodeIndex) ([]Edge, bool) {
	g.check(from)
	g.check(to)
	if from == to {
		return nil, true
	}

	// via[n] is the edge index used to reach n, -1 if unvisited
	via := make([]int, len(g.nodes))
	for i := range via {
		via[i] = -1
	}
	visited := make([]bool, len(g.nodes))
	visited[from] = true
	queue := []NodeIndex{from}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, ei := range g.out[n] {
			next := g.edges[ei].To
			if visited[next] {
				continue
			}
			visited[next] = true
			via[next] = ei
			if next == to {
				return g.walkBack(via, from, to), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func (g *Graph) walkBack(via []int, from, to NodeIndex) []Edge {
	var rev []Edge
	for n := to; n != from; {
		e := g.edges[via[n]]
		rev = append(rev, e)
		n = e.From
	}
	path := make([]Edge, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

func (g *Graph) check(n NodeIndex) {
	if n < 0 || int(n) >= len(g.nodes) {
		panic(errors.AssertionFailedf("graph node %d was never issued (graph has %d)", n, len(g.nodes)))
	}
}
