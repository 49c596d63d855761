package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/display"
	"github.com/teranos/bindgen/graph"
)

// GraphCmd exports the conversion graph as JSON
var GraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the conversion graph as JSON",
	Long: `Export host types, foreign types and every conversion between them as a
node/link JSON document. Output is always JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}
		g := graph.Build(s.tm, s.loader.Sources())
		g.Meta.RunID = runID
		return display.OutputJSON(cmd.OutOrStdout(), g)
	},
}
