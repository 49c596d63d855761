package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/display"
	"github.com/teranos/bindgen/typemap"
)

// ListCmd lists foreign or host types
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List foreign types (or host types with --hosts)",
	Long: `List every foreign type with its conversion rules, or every host type with
its capabilities.

Examples:
  bindgen list
  bindgen list --hosts
  bindgen list --json`,
	RunE: runList,
}

var listHosts bool

func init() {
	ListCmd.Flags().BoolVar(&listHosts, "hosts", false, "List host types instead of foreign types")
}

// ForeignEntry is the JSON form of a foreign type
type ForeignEntry struct {
	Name     string `json:"name"`
	IntoHost string `json:"into_host,omitempty"`
	FromHost string `json:"from_host,omitempty"`
}

// HostEntry is the JSON form of a host type
type HostEntry struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	if listHosts {
		var entries []HostEntry
		for _, rec := range s.tm.Hosts().All() {
			entries = append(entries, HostEntry{Name: rec.NormalizedName, Capabilities: rec.Implements.Names()})
		}
		if jsonOutput(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), entries)
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Name, strings.Join(e.Capabilities, ", ")})
		}
		return display.RenderTable(cmd.OutOrStdout(), []string{"HOST TYPE", "CAPABILITIES"}, rows)
	}

	var entries []ForeignEntry
	for _, rec := range s.tm.ForeignTypes() {
		entries = append(entries, ForeignEntry{
			Name:     rec.Name.Name,
			IntoHost: describeRule(s.tm, rec.IntoHost),
			FromHost: describeRule(s.tm, rec.FromHost),
		})
	}
	if jsonOutput(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, orDash(e.IntoHost), orDash(e.FromHost)})
	}
	return display.RenderTable(cmd.OutOrStdout(), []string{"FOREIGN TYPE", "INTO HOST", "FROM HOST"}, rows)
}

func describeRule(tm *typemap.TypeMap, r *typemap.ConversionRule) string {
	if r == nil {
		return ""
	}
	host := tm.NodeName(r.HostNode)
	if r.Intermediate == nil {
		return host
	}
	return host + " via " + tm.NodeName(r.Intermediate.Node)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
