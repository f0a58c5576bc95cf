package cli

import (
	"os"
	osexec "os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"aipster/internal/config"
	"aipster/internal/history"
	"aipster/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose setup issues",
	Long: `Check that aip-man is installed, the manifest is readable and the
catalog can be fetched.

Examples:
  aipster doctor            # Run diagnostics`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	issues := 0

	ui.HeaderMsg("Running diagnostics...")

	if runtime.GOOS == "linux" {
		ui.SuccessMsg("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	} else {
		ui.WarningMsg("Platform %s: AppImages only run on Linux", runtime.GOOS)
		issues++
	}

	if path, err := osexec.LookPath(runner.Binary()); err != nil {
		ui.ErrorMsg("%s not found on PATH", runner.Binary())
		issues++
	} else {
		ui.SuccessMsg("Executor: %s", path)
	}

	ui.HeaderMsg("Configuration")
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	if _, err := os.Stat(cfgPath); err != nil {
		ui.MutedMsg("No config file at %s, using defaults", cfgPath)
	} else {
		ui.SuccessMsg("Config file: %s", cfgPath)
	}
	ui.MutedMsg("  scorer %s, timeout %ds, retries %d", svc.Ranker().Scorer().Name(),
		cfg.Catalog.TimeoutSeconds, cfg.Catalog.MaxRetries)

	ui.HeaderMsg("Data")
	installed, err := svc.Manifest().Get(ctx)
	if err != nil {
		ui.ErrorMsg("Manifest: %v", err)
		issues++
	} else {
		ui.SuccessMsg("Manifest %s: %d installed", svc.Manifest().Path(), len(installed))
	}

	var pkgs int
	err = ui.WithSpinner("Fetching catalog...", func() error {
		list, err := svc.Catalog().Fetch(ctx)
		pkgs = len(list)
		return err
	})
	if err != nil {
		ui.ErrorMsg("Catalog: %v", err)
		issues++
	} else {
		ui.SuccessMsg("Catalog %s: %d packages", svc.Catalog().Name(), pkgs)
	}

	if path := historyPath(); path != "" {
		if store, err := history.OpenAt(path); err != nil {
			ui.WarningMsg("History: %v", err)
			issues++
		} else {
			n, _ := store.Count()
			store.Close()
			ui.SuccessMsg("History %s: %d entries", path, n)
		}
	} else {
		ui.MutedMsg("History is disabled")
	}

	ui.HeaderMsg("Summary")
	if issues == 0 {
		ui.SuccessMsg("No issues found! aipster is ready to use.")
	} else {
		ui.WarningMsg("Found %d issue(s). Some features may not work correctly.", issues)
	}

	return nil
}
