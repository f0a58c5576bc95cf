package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aipster/internal/history"
	"aipster/internal/ui"
)

var (
	historyLimit   int
	historyPackage string
	historyOutput  bool
	historyClear   bool
	historyPrune   time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show performed actions",
	Long: `Display the actions aipster has performed, newest first.

Examples:
  aipster history                 # Show recent history
  aipster history -l 20           # Show last 20 actions
  aipster history -p krita -o     # Actions on krita with their output
  aipster history --prune 720h    # Drop entries older than 30 days
  aipster history --clear         # Forget everything`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().StringVarP(&historyPackage, "package", "p", "", "only show actions on this package")
	historyCmd.Flags().BoolVarP(&historyOutput, "output", "o", false, "show recorded executor output")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this age")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	switch {
	case historyClear:
		if err := confirm("Delete all history?"); err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		ui.SuccessMsg("History cleared")
		return nil

	case historyPrune > 0:
		n, err := store.Prune(historyPrune)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		ui.SuccessMsg("Removed %d entries older than %s", n, historyPrune)
		return nil
	}

	var entries []history.Entry
	if historyPackage != "" {
		entries, err = store.ForPackage(historyPackage, historyLimit)
	} else {
		entries, err = store.List(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Action History")
	ui.PrintHistory(ui.Out, entries, historyOutput)

	total, _ := store.Count()
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}
