// Package graph exports a type map's conversion graph (host types, foreign
// types and the conversions between them) as a node/link structure for JSON
// output and tooling.
package graph

import (
	"fmt"
	"sort"
	"time"

	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/typemap"
)

// Build converts tm into a Graph. Sources, when given, turn declaration spans
// into file locations. Output order is deterministic: host types by handle,
// then foreign types by index; links in graph insertion order.
func Build(tm *typemap.TypeMap, sources *diag.SourceRegistry) *Graph {
	g := &Graph{
		Nodes: []Node{},
		Links: []Link{},
		Meta:  Meta{GeneratedAt: time.Now()},
	}

	hosts := tm.Hosts()
	nodeIDs := make(map[typemap.NodeIndex]string, hosts.Len())
	for ht, rec := range hosts.All() {
		id := normalizeNodeID(NodeHost, int(ht), rec.NormalizedName)
		nodeIDs[rec.Node] = id
		g.Nodes = append(g.Nodes, Node{
			ID:           id,
			Type:         NodeHost,
			Label:        rec.NormalizedName,
			Capabilities: rec.Implements.Names(),
		})
	}

	for _, e := range tm.Graph().Edges() {
		g.Links = append(g.Links, Link{
			Source: nodeIDs[e.From],
			Target: nodeIDs[e.To],
			Type:   LinkConvertsTo,
			Code:   e.Code,
		})
	}

	for ft, rec := range tm.ForeignTypes() {
		id := normalizeNodeID(NodeForeign, int(ft), rec.Name.Name)
		g.Nodes = append(g.Nodes, Node{
			ID:       id,
			Type:     NodeForeign,
			Label:    rec.Name.Name,
			Location: location(sources, rec.Name.Span),
		})
		if rec.IsPlaceholder() {
			g.Meta.Stats.Placeholder++
			continue
		}
		if r := rec.IntoHost; r != nil {
			g.Links = append(g.Links, ruleLinks(id, nodeIDs, r, LinkIntoHost)...)
		}
		if r := rec.FromHost; r != nil {
			g.Links = append(g.Links, ruleLinks(id, nodeIDs, r, LinkFromHost)...)
		}
	}

	g.Meta.Stats.TotalNodes = len(g.Nodes)
	g.Meta.Stats.TotalEdges = len(g.Links)
	g.Meta.NodeTypes = collectNodeTypeInfo(g.Nodes)
	g.Meta.RelationshipTypes = collectRelationshipTypeInfo(g.Links)
	return g
}

// ruleLinks links a foreign node to the host side of its rule. IntoHost links
// point at the host, FromHost links point at the foreign node. A two-stage
// rule goes through its intermediate node.
func ruleLinks(foreignID string, nodeIDs map[typemap.NodeIndex]string, r *typemap.ConversionRule, dir string) []Link {
	hostID := nodeIDs[r.HostNode]
	if r.Intermediate == nil {
		if dir == LinkIntoHost {
			return []Link{{Source: foreignID, Target: hostID, Type: dir}}
		}
		return []Link{{Source: hostID, Target: foreignID, Type: dir}}
	}

	imID := nodeIDs[r.Intermediate.Node]
	if dir == LinkIntoHost {
		return []Link{
			{Source: foreignID, Target: imID, Type: dir},
			{Source: imID, Target: hostID, Type: LinkIntermediate, Code: r.Intermediate.ConvCode},
		}
	}
	return []Link{
		{Source: hostID, Target: imID, Type: LinkIntermediate, Code: r.Intermediate.ConvCode},
		{Source: imID, Target: foreignID, Type: dir},
	}
}

func location(sources *diag.SourceRegistry, sp diag.Span) string {
	if !sp.IsValid() {
		return ""
	}
	src, ok := sources.Source(sp.Source)
	if !ok {
		return sp.String()
	}
	return fmt.Sprintf("%s:%s", src.Name, sp)
}

func collectNodeTypeInfo(nodes []Node) []NodeTypeInfo {
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[n.Type]++
	}
	out := make([]NodeTypeInfo, 0, len(counts))
	for t, c := range counts {
		out = append(out, NodeTypeInfo{Type: t, Label: typeLabel(t), Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func collectRelationshipTypeInfo(links []Link) []RelationshipTypeInfo {
	counts := make(map[string]int)
	for _, l := range links {
		counts[l.Type]++
	}
	out := make([]RelationshipTypeInfo, 0, len(counts))
	for t, c := range counts {
		out = append(out, RelationshipTypeInfo{Type: t, Label: typeLabel(t), Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
