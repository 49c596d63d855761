package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/bindgen/config"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bindgen configuration",
	Long: `Display and manage bindgen configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (BINDGEN_* prefix)
3. Project config (bindgen.toml, searched upward from the working directory)
4. User config (<user config dir>/bindgen/bindgen.toml)
5. Default values

Examples:
  bindgen config show                 # Show current configuration
  bindgen config show --format json   # Show configuration as JSON
  bindgen config init                 # Write a starter bindgen.toml
  bindgen config check                # Report unknown keys`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter bindgen.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report misspelled or unknown keys in the project config",
	RunE:  runConfigCheck,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file (keeps a backup)")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configCheckCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# bindgen configuration\n%s", string(data))

	case "toml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# bindgen configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	if cfg.Dir != "" {
		showf(cmd, logger.OutputConfig, "# loaded from %s\n", filepath.Join(cfg.Dir, config.FileName))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path := filepath.Join(dir, config.FileName)
	if err := config.WriteDefault(path, configForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	if cfg.Dir == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "no %s found, using defaults\n", config.FileName)
		return nil
	}
	path := filepath.Join(cfg.Dir, config.FileName)
	keys, err := config.UnknownKeys(path)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		return nil
	}
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: unknown key %s\n", path, k)
	}
	return errors.Newf("%d unknown key(s) in %s", len(keys), path)
}
