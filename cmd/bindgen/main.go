package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/cmd/bindgen/commands"
	"github.com/teranos/bindgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bindgen",
	Short: "bindgen - type conversion maps for language bindings",
	Long: `bindgen - type conversion maps for language bindings.

bindgen loads typemap files describing host (Go) types, foreign types and the
conversions between them, and answers how a value crosses the boundary.

Available commands:
  check    - Validate typemap files
  resolve  - Show the conversion between a host and a foreign type
  list     - List foreign or host types
  graph    - Export the conversion graph as JSON
  config   - Manage bindgen configuration
  version  - Show version information

Examples:
  bindgen check --watch
  bindgen resolve --host Point --foreign FPoint --direction from_host
  bindgen list --hosts`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Setup(cmd)
	},
}

func init() {
	commands.RegisterFlags(rootCmd)

	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.GraphCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
