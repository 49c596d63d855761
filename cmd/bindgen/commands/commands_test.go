package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/diag"
	"github.com/teranos/bindgen/errors"
)

const projectMap = `version: "1.0"
host:
  - type: Point
    implements: [Clone]
conversions:
  - from: int64
    to: int32
    code: "int32({from})"
foreign:
  - name: FPoint
    host: Point
  - name: jint
    from_host:
      host: int32
      intermediate: {type: C.int, code: "C.int({from})"}
`

// newProject writes a bindgen.toml and typemap into a temp dir and points the
// global state at it, the way Setup would.
func newProject(t *testing.T, typemapContent string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "typemap.yaml"), []byte(typemapContent), 0o644))
	require.NoError(t, config.WriteDefault(filepath.Join(dir, config.FileName), false))

	loaded, err := config.LoadFrom(dir)
	require.NoError(t, err)
	cfg = loaded
	runID = "test-run"
	verbosity = 0
	typemapFlags = nil
	t.Cleanup(func() { cfg = nil })
	return dir
}

func newRoot(sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	root := &cobra.Command{Use: "bindgen", SilenceErrors: true, SilenceUsage: true}
	RegisterFlags(root)
	root.AddCommand(sub)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	return root, out
}

func TestCheck_OK(t *testing.T) {
	newProject(t, projectMap)
	root, out := newRoot(CheckCmd)
	root.SetArgs([]string{"check"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "ok: 4 host types, 2 foreign types, 1 conversions")
}

func TestCheck_JSONReportsProblems(t *testing.T) {
	newProject(t, "foreign:\n  - name: FPoint\n    host: Point\n  - name: FPoint\n    host: Point\n")
	root, out := newRoot(CheckCmd)
	root.SetArgs([]string{"check", "--json"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrDuplicateDeclaration))

	var report CheckReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.OK)
	assert.Equal(t, "test-run", report.RunID)
	require.Len(t, report.Problems, 1)
	assert.Contains(t, report.Problems[0], "already defined here")
}

func TestCheck_ReportsLoadAndCheckProblemsTogether(t *testing.T) {
	newProject(t, `foreign:
  - name: FPoint
    host: Point
  - name: FPoint
    host: Point
  - name: Lonely
    into_host: {host: ""}
requires:
  - type: Point
    capabilities: [Clone]
`)
	root, out := newRoot(CheckCmd)
	root.SetArgs([]string{"check", "--json"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrDuplicateDeclaration))
	assert.True(t, errors.Is(err, diag.ErrCapabilityMismatch))

	var report CheckReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.OK)
	require.Len(t, report.Problems, 4)
	assert.Contains(t, report.Problems[0], "already defined here")
	assert.Contains(t, report.Problems[1], "missing host type")
	assert.Contains(t, report.Problems[2], "type Point does not implement Clone")
	assert.Contains(t, report.Problems[3], "foreign type Lonely has no conversion rules")
}

func TestWatchLoop_ReturnsWhenWatcherStops(t *testing.T) {
	dir := newProject(t, projectMap)
	newRoot(CheckCmd)

	w, err := config.NewWatcher([]string{filepath.Join(dir, "typemap.yaml")}, 10*time.Millisecond, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = watchLoop(ctx, CheckCmd, w, "", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch stopped")
}

func TestReloadConfig(t *testing.T) {
	dir := newProject(t, projectMap)
	path := filepath.Join(dir, config.FileName)

	require.NoError(t, os.WriteFile(path, []byte("[resolve]\ncache_size = 5\n"), 0o644))
	require.NoError(t, reloadConfig())
	assert.Equal(t, 5, cfg.Resolve.CacheSize)

	// unreadable or invalid files keep the previous configuration
	require.NoError(t, os.WriteFile(path, []byte("[resolve\ncache_size = 7\n"), 0o644))
	assert.Error(t, reloadConfig())
	assert.Equal(t, 5, cfg.Resolve.CacheSize)

	require.NoError(t, os.WriteFile(path, []byte("[resolve]\ncache_size = -1\n"), 0o644))
	assert.Error(t, reloadConfig())
	assert.Equal(t, 5, cfg.Resolve.CacheSize)
}

func TestContainsPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, config.FileName)
	assert.True(t, containsPath([]string{filepath.Join(dir, "x.yaml"), filepath.Join(dir, ".", config.FileName)}, target))
	assert.False(t, containsPath([]string{filepath.Join(dir, "x.yaml")}, target))
	assert.False(t, containsPath(nil, target))
}

func TestReportError_RendersSource(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	newProject(t, "foreign:\n  - name: FPoint\n    host: Point\n  - name: FPoint\n    host: Point\n")
	root, _ := newRoot(CheckCmd)
	root.SetArgs([]string{"check"})
	err := root.Execute()
	require.Error(t, err)

	var buf bytes.Buffer
	ReportError(&buf, err)
	assert.Contains(t, buf.String(), "typemap.yaml")
	assert.Contains(t, buf.String(), "second mention of type FPoint")
	assert.Contains(t, buf.String(), "  - name: FPoint")
}

func TestReportError_Hint(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.WithHint(errors.New("boom"), "try again"))
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "hint: try again")
}

func TestResolve(t *testing.T) {
	newProject(t, projectMap)
	root, out := newRoot(ResolveCmd)
	root.SetArgs([]string{"resolve", "--host", "int64", "--foreign", "jint", "--direction", "from_host", "--json"})

	require.NoError(t, root.Execute())
	var report ResolveReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "C.int", report.Boundary)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, "int32({from})", report.Steps[0].Code)
	assert.Equal(t, "intermediate", report.Steps[1].Kind)
}

func TestResolve_Unresolved(t *testing.T) {
	newProject(t, projectMap)
	root, _ := newRoot(ResolveCmd)
	root.SetArgs([]string{"resolve", "--host", "int32", "--foreign", "jint", "--direction", "into_host"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrUnresolvedConversion))
}

func TestResolve_UnknownHost(t *testing.T) {
	newProject(t, projectMap)
	root, _ := newRoot(ResolveCmd)
	root.SetArgs([]string{"resolve", "--host", "Nope", "--foreign", "FPoint"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestList(t *testing.T) {
	newProject(t, projectMap)
	root, out := newRoot(ListCmd)
	root.SetArgs([]string{"list", "--json"})

	require.NoError(t, root.Execute())
	var entries []ForeignEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	assert.Equal(t, []ForeignEntry{
		{Name: "FPoint", IntoHost: "Point", FromHost: "Point"},
		{Name: "jint", FromHost: "int32 via C.int"},
	}, entries)
}

func TestGraph(t *testing.T) {
	newProject(t, projectMap)
	root, out := newRoot(GraphCmd)
	root.SetArgs([]string{"graph"})

	require.NoError(t, root.Execute())
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Len(t, decoded["nodes"], 6)
}

func TestConfigCheck(t *testing.T) {
	dir := newProject(t, projectMap)
	root, out := newRoot(ConfigCmd)
	root.SetArgs([]string{"config", "check"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), ": ok")

	f, err := os.OpenFile(filepath.Join(dir, config.FileName), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\n[extra]\nthing = 1\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	root, out = newRoot(ConfigCmd)
	root.SetArgs([]string{"config", "check"})
	assert.Error(t, root.Execute())
	assert.Contains(t, out.String(), "unknown key extra.thing")
}
