package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"aipster/internal/ui"
	"aipster/pkg/state"
)

var (
	searchInstalled bool
	searchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank catalog packages by similarity to a query",
	Long: `Search the catalog. Every package is scored against the query and
shown best match first.

Examples:
  aipster search krita            # Best matches for "krita"
  aipster search -l 5 editor      # Top five
  aipster search --installed gimp # Only installed packages`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchInstalled, "installed", "i", false, "only search installed packages")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "maximum results to show (0 for all)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	st, err := refresh(cmd.Context(), state.Filter{InstalledOnly: searchInstalled, Query: query})
	if err != nil {
		return err
	}

	ui.PrintState(ui.Out, limitState(st, searchLimit))
	return nil
}

// limitState returns st showing at most n entries.
func limitState(st *state.State, n int) *state.State {
	if n <= 0 || st.Len() <= n {
		return st
	}
	shown := *st
	shown.Entries = st.Entries[:n]
	return &shown
}
