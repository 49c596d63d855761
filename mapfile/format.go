package mapfile

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/diag"
)

// Scalars are kept as yaml.Node so every value carries its line and column.

type rawFile struct {
	Version     yaml.Node       `yaml:"version"`
	Host        []rawHost       `yaml:"host"`
	Conversions []rawConversion `yaml:"conversions"`
	Foreign     []rawForeign    `yaml:"foreign"`
	Requires    []rawRequire    `yaml:"requires"`
}

type rawHost struct {
	Type       yaml.Node   `yaml:"type"`
	Implements []yaml.Node `yaml:"implements"`
}

type rawConversion struct {
	From yaml.Node `yaml:"from"`
	To   yaml.Node `yaml:"to"`
	Code yaml.Node `yaml:"code"`
}

type rawForeign struct {
	Name     yaml.Node `yaml:"name"`
	Host     yaml.Node `yaml:"host"`
	IntoHost *rawRule  `yaml:"into_host"`
	FromHost *rawRule  `yaml:"from_host"`
}

type rawRule struct {
	Host         yaml.Node        `yaml:"host"`
	Intermediate *rawIntermediate `yaml:"intermediate"`
}

type rawIntermediate struct {
	Type yaml.Node `yaml:"type"`
	Code yaml.Node `yaml:"code"`
}

type rawRequire struct {
	Type         yaml.Node   `yaml:"type"`
	Capabilities []yaml.Node `yaml:"capabilities"`
}

func present(n *yaml.Node) bool {
	return n != nil && n.Kind != 0
}

func scalar(n *yaml.Node) string {
	return strings.TrimSpace(n.Value)
}

// spanOf locates n, or the first present fallback when n is absent (a missing
// key is reported at its enclosing entry).
func spanOf(src diag.SourceID, n *yaml.Node, fallbacks ...*yaml.Node) diag.Span {
	if !present(n) {
		for _, f := range fallbacks {
			if present(f) {
				return spanOf(src, f)
			}
		}
		return diag.NoSpan()
	}
	width := len(n.Value)
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		width += 2
	}
	return diag.SpanAt(src, n.Line, n.Column, max(width, 1))
}

// The typed decode drops mapping positions, so the untyped document is kept
// alongside it to place diagnostics for absent keys.

func mappingPair(m *yaml.Node, key string) (k, v *yaml.Node) {
	if m == nil {
		return nil, nil
	}
	if m.Kind == yaml.DocumentNode && len(m.Content) > 0 {
		m = m.Content[0]
	}
	if m.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i], m.Content[i+1]
		}
	}
	return nil, nil
}

func keyNode(m *yaml.Node, key string) *yaml.Node {
	k, _ := mappingPair(m, key)
	return k
}

func valueNode(m *yaml.Node, key string) *yaml.Node {
	_, v := mappingPair(m, key)
	return v
}

// entry returns item i of the top-level sequence named section.
func entry(doc *yaml.Node, section string, i int) *yaml.Node {
	seq := valueNode(doc, section)
	if seq == nil || seq.Kind != yaml.SequenceNode || i >= len(seq.Content) {
		return nil
	}
	return seq.Content[i]
}
