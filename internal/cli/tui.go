package cli

import (
	"os"

	"github.com/spf13/cobra"

	"aipster/internal/config"
	"aipster/internal/log"
	"aipster/internal/tui"
	"aipster/pkg/state"
)

var (
	tuiInstalled bool
	tuiQuery     string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal user interface",
	Long: `Launch the interactive terminal user interface. Running aipster with
no command on a terminal does the same.

Navigation:
  - Use arrow keys or j/k to move, 1-2 or tab to switch tabs
  - Press / to search, f to toggle installed only, R to refresh
  - Press i to install, u to upgrade, r to remove
  - Press enter for details, ? for help, q to quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiInstalled, "installed", "i", false, "start with installed packages only")
	tuiCmd.Flags().StringVarP(&tuiQuery, "query", "q", "", "start with a search query")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Diagnostics would garble the alternate screen.
	prev := log.SetOutput(nil)
	defer log.SetOutput(prev)
	if err := config.EnsureDataDir(); err == nil {
		if f, err := os.OpenFile(config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	return tui.Run(svc, cfg, historyPath(), state.Filter{InstalledOnly: tuiInstalled, Query: tuiQuery})
}
