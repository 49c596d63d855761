package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/display"
	"github.com/teranos/bindgen/mapfile"
	"github.com/teranos/bindgen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show bindgen version information",
	Long:  `Display version, build time, commit hash, platform and supported typemap format versions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		version.TypemapFormat = mapfile.SupportedVersions
		info := version.Get()

		if jsonOutput(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		fmt.Fprintf(out, "Typemap format: %s\n", info.TypemapFormat)
		return nil
	},
}
