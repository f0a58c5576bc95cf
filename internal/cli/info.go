package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"aipster/internal/config"
	"aipster/internal/history"
	"aipster/internal/log"
	"aipster/internal/ui"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show details of a catalog package",
	Long: `Show the catalog entry of a package with its installed version,
the actions available for it and its recent history.

Examples:
  aipster info krita`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	st, err := refresh(cmd.Context(), state.Filter{})
	if err != nil {
		return err
	}

	entry, err := lookup(st, args[0])
	if err != nil {
		return err
	}

	ui.PrintEntryInfo(ui.Out, entry)

	if !cfg.General.History {
		return nil
	}
	store, err := history.Open()
	if err != nil {
		log.Warn("history: %v", err)
		return nil
	}
	defer store.Close()

	entries, err := store.ForPackage(entry.Package.Name, 5)
	if err != nil || len(entries) == 0 {
		return nil
	}
	ui.HeaderMsg("Recent actions")
	ui.PrintHistory(ui.Out, entries, false)
	return nil
}

// lookup finds name in st, suggesting close names when it is missing.
func lookup(st *state.State, name string) (reconcile.Entry, error) {
	if e, ok := st.Find(name); ok {
		return e, nil
	}

	var similar []string
	for _, e := range svc.Ranker().Rank(st.Entries, false, name) {
		if len(similar) == 3 {
			break
		}
		similar = append(similar, e.Package.Name)
	}
	if len(similar) > 0 {
		return reconcile.Entry{}, fmt.Errorf("%w: %s (did you mean %v?)", ErrPackageNotFound, name, similar)
	}
	return reconcile.Entry{}, fmt.Errorf("%w: %s", ErrPackageNotFound, name)
}

// historyPath returns where actions are recorded, or "" when history is
// disabled.
func historyPath() string {
	if !cfg.General.History {
		return ""
	}
	return config.HistoryPath()
}
