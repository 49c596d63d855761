package logger

// Standard field names for consistent structured logging across bindgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldOperation = "operation"

	// Type map
	FieldHostType     = "host_type"
	FieldForeignType  = "foreign_type"
	FieldNode         = "node"
	FieldIntermediate = "intermediate"
	FieldDirection    = "direction"
	FieldCapability   = "capability"
	FieldSteps        = "steps"

	// Files and sources
	FieldFile    = "file"
	FieldLine    = "line"
	FieldPackage = "package"
	FieldVersion = "version"

	// Counts and timing
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)
