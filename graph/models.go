package graph

import (
	"time"
)

// Graph is the exported view of a type map's conversion graph
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
	Meta  Meta   `json:"meta"`
}

// Node is a host type or a foreign type
type Node struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`  // "host" or "foreign"
	Label        string   `json:"label"` // Normalized host name or foreign name
	Capabilities []string `json:"capabilities,omitempty"`
	Location     string   `json:"location,omitempty"` // file:line:col of a foreign declaration
}

// Link is a conversion between two nodes
type Link struct {
	Source string `json:"source"` // Node ID
	Target string `json:"target"` // Node ID
	Type   string `json:"type"`   // converts_to, into_host, from_host, intermediate
	Code   string `json:"code,omitempty"`
}

// Meta contains metadata about the graph
type Meta struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	RunID             string                 `json:"run_id,omitempty"`
	Stats             Stats                  `json:"stats"`
	NodeTypes         []NodeTypeInfo         `json:"node_types"`
	RelationshipTypes []RelationshipTypeInfo `json:"relationship_types"`
}

// NodeTypeInfo counts the nodes of one type
type NodeTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count,omitempty"`
}

// RelationshipTypeInfo counts the links of one type
type RelationshipTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count,omitempty"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes  int `json:"total_nodes,omitempty"`
	TotalEdges  int `json:"total_edges,omitempty"`
	Placeholder int `json:"placeholder,omitempty"` // foreign types without rules
}
