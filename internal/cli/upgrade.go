package cli

import (
	"github.com/spf13/cobra"

	"aipster/internal/ui"
	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

var upgradeAll bool

var upgradeCmd = &cobra.Command{
	Use:     "upgrade [packages...]",
	Aliases: []string{"up"},
	Short:   "Upgrade installed AppImages to the catalog version",
	Long: `Upgrade packages whose catalog version is newer than the installed
one. With no package named, every upgradable package is upgraded.

Examples:
  aipster upgrade                 # Upgrade everything upgradable
  aipster upgrade krita           # Upgrade one package
  aipster upgrade --all -y        # Upgrade everything without asking`,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().BoolVarP(&upgradeAll, "all", "a", false, "upgrade every upgradable package")

	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && !upgradeAll {
		return runActions(cmd.Context(), manager.ActionUpgrade, args)
	}

	ctx := cmd.Context()
	st, err := refresh(ctx, state.Filter{InstalledOnly: true})
	if err != nil {
		return err
	}

	var upgradable []reconcile.Entry
	for _, e := range st.Entries {
		if e.CanUpgrade() {
			upgradable = append(upgradable, e)
		}
	}
	if len(upgradable) == 0 {
		ui.SuccessMsg("All %d installed packages are up to date", st.Counts.Installed)
		return nil
	}

	return performAll(ctx, manager.ActionUpgrade, upgradable, st.Filter)
}
