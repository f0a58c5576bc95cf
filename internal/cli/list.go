package cli

import (
	"github.com/spf13/cobra"

	"aipster/internal/ui"
	"aipster/pkg/state"
)

var (
	listInstalled bool
	listQuery     string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog packages and their install status",
	Long: `Fetch the catalog, compare it with the installed manifest and print
every package with its installed and available versions.

Examples:
  aipster list                    # All catalog packages
  aipster list --installed        # Only installed packages
  aipster list -q paint           # Ranked against "paint"`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listInstalled, "installed", "i", false, "only show installed packages")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "rank packages against a search query")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := refresh(cmd.Context(), state.Filter{InstalledOnly: listInstalled, Query: listQuery})
	if err != nil {
		return err
	}

	ui.PrintState(ui.Out, st)
	return nil
}
