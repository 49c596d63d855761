package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/display"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/mapfile"
)

// CheckCmd loads every typemap and reports all problems
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate typemap files",
	Long: `Load every configured typemap file, then check that declared capability
requirements hold and that every foreign type has a conversion rule.

All problems are reported at once, grouped by file. The exit status is
non-zero when anything is wrong.

Examples:
  bindgen check                      # Check typemap.paths from bindgen.toml
  bindgen check -t types.yaml        # Check one file
  bindgen check --watch              # Re-check whenever a file changes`,
	RunE: runCheck,
}

var checkWatch bool

func init() {
	CheckCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Re-run the check whenever a typemap or config file changes")
}

// CheckReport is the JSON form of a check
type CheckReport struct {
	RunID       string   `json:"run_id"`
	OK          bool     `json:"ok"`
	Files       []string `json:"files"`
	HostTypes   int      `json:"host_types"`
	ForeignType int      `json:"foreign_types"`
	Conversions int      `json:"conversions"`
	Problems    []string `json:"problems,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if !checkWatch {
		return checkOnce(cmd)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchCheck(ctx, cmd)
}

func checkOnce(cmd *cobra.Command) error {
	s, err := loadSession(cmd.Context())
	if s == nil {
		return err
	}
	// load diagnostics and check findings are reported together
	var problems diag.List
	problems.Add(err)
	problems.Add(mapfile.Check(s.tm, s.results))
	err = s.fail(problems.Err())

	report := CheckReport{
		RunID:       runID,
		OK:          err == nil,
		Files:       s.paths,
		HostTypes:   s.tm.Hosts().Len(),
		ForeignType: s.tm.ForeignCount(),
		Conversions: len(s.tm.Graph().Edges()),
	}

	if jsonOutput(cmd) {
		var list *diag.List
		if errors.As(err, &list) {
			for _, d := range list.Errors() {
				report.Problems = append(report.Problems, d.Error())
			}
		}
		if jerr := display.OutputJSON(cmd.OutOrStdout(), report); jerr != nil {
			return jerr
		}
		return err
	}

	if err != nil {
		return err
	}
	showf(cmd, logger.OutputProgress, "loaded %d file(s) in %dms\n", len(s.paths), s.elapsed.Milliseconds())
	showf(cmd, logger.OutputResults, "ok: %d host types, %d foreign types, %d conversions\n",
		report.HostTypes, report.ForeignType, report.Conversions)
	if logger.ShouldOutput(verbosity, logger.OutputDataDump) {
		fmt.Fprint(cmd.OutOrStdout(), s.tm.DumpForeign())
	}
	return nil
}

// watchCheck runs the check, then again after every debounced change, until
// ctx is cancelled. Each run builds a fresh TypeMap.
func watchCheck(ctx context.Context, cmd *cobra.Command) error {
	paths := typemapPaths()
	configPath := ""
	if cfg.Dir != "" {
		configPath = config.FindProjectConfig(cfg.Dir)
		paths = append(paths, configPath)
	}

	w, err := config.NewWatcher(paths, config.DefaultDebounce, logger.Logger)
	if err != nil {
		return err
	}
	defer w.Close()
	return watchLoop(ctx, cmd, w, configPath, len(paths))
}

func watchLoop(ctx context.Context, cmd *cobra.Command, w *config.Watcher, configPath string, watched int) error {
	rerun := func(changed []string) {
		if configPath != "" && containsPath(changed, configPath) {
			if err := reloadConfig(); err != nil {
				ReportError(cmd.ErrOrStderr(), err)
			}
		}
		if err := checkOnce(cmd); err != nil {
			ReportError(cmd.ErrOrStderr(), err)
		}
		showf(cmd, logger.OutputResults, "watching %d file(s), ctrl-c to stop\n", watched)
	}
	rerun(nil)

	changes := make(chan []string, 1)
	stopped := make(chan error, 1)
	go func() {
		stopped <- w.Run(ctx, func(changed []string) {
			select {
			case changes <- changed:
			default:
			}
		})
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-stopped:
			if ctx.Err() != nil {
				return nil
			}
			if err == nil {
				err = errors.New("file watcher closed")
			}
			return errors.Wrap(err, "watch stopped")
		case changed := <-changes:
			logger.Logger.Infow("Files changed, re-checking", logger.FieldCount, len(changed))
			rerun(changed)
		}
	}
}

// reloadConfig re-reads bindgen.toml after it changed on disk. The previous
// configuration stays in effect when the new one does not load. Typemap paths
// added by the reload are checked but not watched until restart.
func reloadConfig() error {
	loaded, err := config.LoadFrom(cfg.Dir)
	if err != nil {
		return errors.Wrap(err, "failed to reload config")
	}
	if err := loaded.Validate(); err != nil {
		return errors.Wrap(err, "invalid config, keeping previous")
	}
	cfg = loaded
	logger.Logger.Infow("Config reloaded", logger.FieldFile, config.FindProjectConfig(cfg.Dir))
	return nil
}

func containsPath(paths []string, want string) bool {
	want, _ = filepath.Abs(want)
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil && abs == want {
			return true
		}
	}
	return false
}
