package display

import (
	"encoding/json"
)

// MarshalJSON marshals JSON with two-space indentation. Output is stable for
// a given value, so golden comparisons in tests work.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
