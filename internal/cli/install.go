package cli

import (
	"github.com/spf13/cobra"

	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
)

var installCmd = &cobra.Command{
	Use:     "install [packages...]",
	Aliases: []string{"add"},
	Short:   "Install one or more AppImages",
	Long: `Install catalog packages with aip-man. With no package named, a
picker of packages not yet installed is shown.

Examples:
  aipster install krita           # Install a package
  aipster install -y krita gimp   # Install without confirmation
  aipster install -n krita        # Show the command that would run`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		var err error
		names, err = pick(cmd.Context(), "Select a package to install", reconcile.Entry.CanInstall)
		if err != nil {
			return err
		}
	}
	return runActions(cmd.Context(), manager.ActionInstall, names)
}
