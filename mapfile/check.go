package mapfile

import (
	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/typemap"
)

// Check validates a fully loaded TypeMap: every declared requirement must be
// met, and every foreign type must have at least one conversion rule. Run it
// after all files are loaded, since a later file may annotate a host type.
func Check(tm *typemap.TypeMap, results []*Result) error {
	var diags diag.List
	for _, res := range results {
		for _, req := range res.Requirements {
			diags.Add(tm.RequireCapabilities(req.Host, req.Capabilities, req.Span))
		}
	}
	for _, rec := range tm.ForeignTypes() {
		if rec.IntoHost == nil && rec.FromHost == nil {
			diags.Add(diag.New(diag.ErrUnresolvedConversion, rec.Name.Span,
				"foreign type %s has no conversion rules", rec.Name))
		}
	}
	return diags.Err()
}
