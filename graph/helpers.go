package graph

import (
	"strconv"
	"strings"
)

// normalizeNodeID makes a safe, lowercase node ID from a type name.
// Example: "*bytes.Buffer" becomes "host_2__bytes_buffer". The handle keeps
// IDs unique when two names normalize the same.
func normalizeNodeID(kind string, handle int, name string) string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, name)

	return kind + "_" + strconv.Itoa(handle) + "_" + strings.ToLower(normalized)
}

func typeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return t
}
