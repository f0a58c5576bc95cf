package cli

import (
	"github.com/spf13/cobra"

	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
)

var removeCmd = &cobra.Command{
	Use:     "remove [packages...]",
	Aliases: []string{"uninstall", "rm"},
	Short:   "Remove one or more installed AppImages",
	Long: `Remove installed packages with aip-man. With no package named, a
picker of installed packages is shown.

Examples:
  aipster remove krita            # Remove a package
  aipster rm -y krita gimp        # Remove without confirmation`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		var err error
		names, err = pick(cmd.Context(), "Select a package to remove", reconcile.Entry.CanRemove)
		if err != nil {
			return err
		}
	}
	return runActions(cmd.Context(), manager.ActionRemove, names)
}
