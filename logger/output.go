package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information the commands print regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults     OutputCategory = iota // Command results (resolutions, listings)
	OutputDiagnostics                       // Rendered diagnostics

	// Level 1 (-v)
	OutputProgress // Files loaded, discovery progress
	OutputConfig   // Config file used, values applied

	// Level 2 (-vv)
	OutputSteps  // Individual resolution steps with conversion code
	OutputTiming // Load and resolve timing

	// Level 3 (-vvv)
	OutputDataDump // Full registry/storage dumps
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:     VerbosityUser,
	OutputDiagnostics: VerbosityUser,
	OutputProgress:    VerbosityInfo,
	OutputConfig:      VerbosityInfo,
	OutputSteps:       VerbosityDebug,
	OutputTiming:      VerbosityDebug,
	OutputDataDump:    VerbosityTrace,
}

var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputDiagnostics: "diagnostics",
	OutputProgress:    "progress",
	OutputConfig:      "config",
	OutputSteps:       "steps",
	OutputTiming:      "timing",
	OutputDataDump:    "data-dump",
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
