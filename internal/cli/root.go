// Package cli implements the command-line interface for aipster.
package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"aipster/internal/config"
	"aipster/internal/executor"
	"aipster/internal/log"
	"aipster/internal/ui"
	"aipster/pkg/catalog"
	"aipster/pkg/manifest"
	"aipster/pkg/rank"
	"aipster/pkg/state"
)

var (
	// Global flags
	cfgFile      string
	catalogFlag  string
	manifestFlag string
	dryRun       bool
	yes          bool
	verbose      bool
	noColor      bool

	// Global state
	cfg    *config.Config
	runner *executor.Executor
	svc    *state.Service
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "aipster",
	Short: "Browse and manage AppImages installed with aip-man",
	Long: `aipster compares the aip-man package catalog with the packages
installed on this machine, and installs, upgrades or removes AppImages
through aip-man.

Run without a command on a terminal to open the interactive interface.

Examples:
  aipster                         # Interactive interface
  aipster list --installed        # Installed packages and their status
  aipster search krita            # Rank the catalog against a query
  aipster install krita           # Install a package
  aipster upgrade --all           # Upgrade every upgradable package`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "catalog URL, file:// URL or local path")
	rootCmd.PersistentFlags().StringVar(&manifestFlag, "manifest", "", "installed-package manifest path")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command, cancelling it on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.ErrorMsg("%v", err)
	}
	return err
}

// initializeApp loads configuration and wires the service.
func initializeApp() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.General.AutoConfirm = true
	}
	if dryRun {
		cfg.General.DryRun = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if catalogFlag != "" {
		cfg.Catalog.URL = catalogFlag
	}
	if manifestFlag != "" {
		cfg.Manifest.Path = manifestFlag
	}

	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)
	if cfg.Output.Verbose {
		log.SetLevel(log.LevelDebug)
	}

	svc, err = newService(cfg)
	return err
}

// newService builds the catalog, manifest and executor described by c.
func newService(c *config.Config) (*state.Service, error) {
	client := &http.Client{Timeout: time.Duration(c.Catalog.TimeoutSeconds) * time.Second}
	src, err := catalog.New(c.CatalogLocation(), client, c.Catalog.MaxRetries)
	if err != nil {
		return nil, err
	}

	scorer, err := rank.ScorerByName(c.Search.Scorer)
	if err != nil {
		return nil, err
	}

	runner = executor.New(c.Executor.Binary, c.General.DryRun, c.Output.Verbose)
	runner.SetVerbs(c.Executor.InstallVerb, c.Executor.RemoveVerb)

	store := manifest.Open(c.ManifestPath())
	log.Debug("cli: catalog %s, manifest %s, scorer %s", src.Name(), store.Path(), scorer.Name())

	return state.NewService(src, store, runner, rank.New(scorer)), nil
}

// runRoot opens the TUI on a terminal and lists packages otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	if isTerminal() {
		return runTUI(cmd, args)
	}
	return runList(cmd, args)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// refresh builds a state for f behind a spinner.
func refresh(ctx context.Context, f state.Filter) (*state.State, error) {
	var st *state.State
	err := ui.WithSpinner("Fetching catalog...", func() error {
		var err error
		st, err = svc.Refresh(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("cli: %d entries from %s", st.Len(), st.Source)
	return st, nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print aipster version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("aipster version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
