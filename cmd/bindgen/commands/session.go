package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/discover"
	"github.com/teranos/bindgen/display"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/mapfile"
	"github.com/teranos/bindgen/typemap"
)

// Global CLI state, set up by Setup before any command runs
var (
	cfg          *config.Config
	runID        string
	verbosity    int
	typemapFlags []string
)

// Setup loads configuration and initializes logging for one run. Called from
// the root command's PersistentPreRunE.
func Setup(cmd *cobra.Command) error {
	loaded, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := loaded.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	cfg = loaded

	count, _ := cmd.Flags().GetCount("verbose")
	verbosity = max(count, cfg.Log.Verbosity)

	if cfg.Output.Theme != "" {
		logger.SetTheme(cfg.Output.Theme)
	}
	if err := logger.InitializeWithVerbosity(jsonOutput(cmd), verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	runID = uuid.NewString()
	logger.Logger = logger.Logger.With(logger.FieldRunID, runID)
	logger.Logger.Debugw("Run started",
		logger.FieldOperation, cmd.CommandPath(),
		"verbosity", logger.LevelName(verbosity),
		"config_dir", cfg.Dir)
	return nil
}

// RegisterFlags adds the flags every command shares.
func RegisterFlags(root *cobra.Command) {
	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().Bool("json", false, "Output results as JSON")
	root.PersistentFlags().StringSliceVarP(&typemapFlags, "typemap", "t", nil, "Typemap files to load (overrides typemap.paths)")
}

func jsonOutput(cmd *cobra.Command) bool {
	return display.ShouldOutputJSON(cmd, cfg != nil && cfg.Output.JSON)
}

// DiagnosticsError carries diagnostics together with the sources they point
// into, so main can render them.
type DiagnosticsError struct {
	Sources *diag.SourceRegistry
	Err     error
}

func (e *DiagnosticsError) Error() string { return e.Err.Error() }
func (e *DiagnosticsError) Unwrap() error { return e.Err }

// ReportError prints a command failure to w. Diagnostics are rendered with
// source excerpts; other errors get their hints appended.
func ReportError(w io.Writer, err error) {
	var de *DiagnosticsError
	if errors.As(err, &de) {
		diag.Render(w, de.Sources, de.Err)
		return
	}
	diag.Render(w, nil, err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}

// session is one loaded type map with everything needed to report on it.
type session struct {
	tm      *typemap.TypeMap
	loader  *mapfile.Loader
	results []*mapfile.Result
	paths   []string
	log     *zap.SugaredLogger
	elapsed time.Duration
}

func (s *session) fail(err error) error {
	if err == nil {
		return nil
	}
	return &DiagnosticsError{Sources: s.loader.Sources(), Err: err}
}

func typemapPaths() []string {
	if len(typemapFlags) > 0 {
		return typemapFlags
	}
	return cfg.TypemapPaths()
}

// loadSession builds a fresh TypeMap: capability discovery first (when
// configured), then every typemap file in order.
func loadSession(ctx context.Context) (*session, error) {
	start := time.Now()
	log := logger.Named("session")

	tm, err := typemap.NewWithConfig(logger.Logger, &typemap.Config{CacheSize: cfg.Resolve.CacheSize})
	if err != nil {
		return nil, err
	}
	s := &session{
		tm:     tm,
		loader: mapfile.NewLoader(tm, diag.NewSourceRegistry(), logger.Logger),
		paths:  typemapPaths(),
		log:    log,
	}

	if cfg.DiscoveryEnabled() {
		findings, err := discover.Discover(ctx, discover.Options{
			Dir:          cfg.DiscoverDir(),
			Patterns:     cfg.Discover.Packages,
			Capabilities: cfg.Discover.Capabilities,
			Relative:     cfg.Discover.Relative,
		}, logger.Logger)
		if err != nil {
			return nil, errors.Wrap(err, "capability discovery failed")
		}
		if err := discover.Apply(tm, findings); err != nil {
			return nil, err
		}
		log.Infow("Capabilities discovered", logger.FieldCount, len(findings))
	}

	results, err := s.loader.LoadFiles(s.paths)
	s.results = results
	s.elapsed = time.Since(start)
	if err != nil {
		var list *diag.List
		if errors.As(err, &list) {
			return s, s.fail(err)
		}
		return nil, err
	}

	log.Infow("Typemaps loaded",
		logger.FieldCount, len(results),
		logger.FieldDurationMS, s.elapsed.Milliseconds())
	return s, nil
}

func showf(cmd *cobra.Command, category logger.OutputCategory, format string, args ...interface{}) {
	if logger.ShouldOutput(verbosity, category) {
		fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	}
}
