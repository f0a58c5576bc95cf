package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"aipster/internal/config"
	"aipster/internal/ui"
)

var (
	configInit  bool
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
	Long: `Print the effective configuration, flags included, as TOML.

Examples:
  aipster config            # Show the effective settings
  aipster config --init     # Write the defaults to the config file`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "write the default configuration file")
	configCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file with --init")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configInit {
		return toml.NewEncoder(ui.Out).Encode(cfg)
	}

	path := cfgFile
	if path == "" {
		path = config.ConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists, use --force to replace it", path)
	}

	if cfg.General.DryRun {
		ui.InfoMsg("Would write defaults to %s", path)
		return nil
	}
	if err := config.Default().SaveTo(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ui.SuccessMsg("Wrote %s", path)
	return nil
}
