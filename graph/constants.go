package graph

// Node types
const (
	NodeHost    = "host"
	NodeForeign = "foreign"
)

// Link types
const (
	LinkConvertsTo   = "converts_to"
	LinkIntoHost     = "into_host"
	LinkFromHost     = "from_host"
	LinkIntermediate = "intermediate"
)

var typeLabels = map[string]string{
	NodeHost:         "Host type",
	NodeForeign:      "Foreign type",
	LinkConvertsTo:   "Converts to",
	LinkIntoHost:     "Into host",
	LinkFromHost:     "From host",
	LinkIntermediate: "Through intermediate",
}
