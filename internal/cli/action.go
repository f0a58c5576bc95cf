package cli

import (
	"context"
	"fmt"

	"aipster/internal/history"
	"aipster/internal/log"
	"aipster/internal/ui"
	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

// checkAction reports why action cannot be performed on e, if it cannot.
func checkAction(action manager.Action, e reconcile.Entry) error {
	if e.Can(action) {
		return nil
	}
	name := e.Package.Name
	switch {
	case action == manager.ActionInstall:
		return fmt.Errorf("%w: %s %s", ErrAlreadyInstalled, name, e.InstalledVersion())
	case !e.IsInstalled():
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	case action == manager.ActionUpgrade:
		return fmt.Errorf("%w: %s %s", ErrNotUpgradable, name, e.InstalledVersion())
	}
	return fmt.Errorf("cannot %s %s", action, name)
}

// describe returns a one-line description of action on e.
func describe(action manager.Action, e reconcile.Entry) string {
	switch action {
	case manager.ActionInstall:
		return fmt.Sprintf("install %s %s", e.Package.Name, e.Package.Version)
	case manager.ActionUpgrade:
		return fmt.Sprintf("upgrade %s %s -> %s", e.Package.Name, e.InstalledVersion(), e.Package.Version)
	}
	return fmt.Sprintf("%s %s %s", action, e.Package.Name, e.InstalledVersion())
}

// confirm asks before acting unless --yes or --dry-run was given.
func confirm(prompt string) error {
	if cfg.General.AutoConfirm || cfg.General.DryRun {
		return nil
	}
	ok, err := ui.Confirm(prompt, false)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// runActions validates action against each named package, confirms once and
// performs them in order. The first validation error stops before anything
// runs.
func runActions(ctx context.Context, action manager.Action, names []string) error {
	if len(names) == 0 {
		return ErrNoPackages
	}

	st, err := refresh(ctx, state.Filter{})
	if err != nil {
		return err
	}

	entries := make([]reconcile.Entry, 0, len(names))
	for _, name := range names {
		e, err := lookup(st, name)
		if err != nil {
			return err
		}
		if err := checkAction(action, e); err != nil {
			return err
		}
		entries = append(entries, e)
	}

	return performAll(ctx, action, entries, st.Filter)
}

// uniqueByName drops later entries repeating an earlier package name.
func uniqueByName(entries []reconcile.Entry) []reconcile.Entry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if seen[e.Package.Name] {
			continue
		}
		seen[e.Package.Name] = true
		out = append(out, e)
	}
	return out
}

// performAll confirms and performs action once per package name,
// continuing past failures.
func performAll(ctx context.Context, action manager.Action, entries []reconcile.Entry, prior state.Filter) error {
	entries = uniqueByName(entries)
	if len(entries) == 1 {
		ui.InfoMsg("About to %s", describe(action, entries[0]))
	} else {
		ui.InfoMsg("About to %s %d packages:", action, len(entries))
		for _, e := range entries {
			ui.MutedMsg("  - %s", describe(action, e))
		}
	}
	if err := confirm("Proceed?"); err != nil {
		return err
	}

	var failed int
	var lastErr error
	for _, e := range entries {
		if err := perform(ctx, action, e, prior); err != nil {
			failed++
			lastErr = err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	switch {
	case failed == 0:
		return nil
	case len(entries) == 1:
		return lastErr
	}
	return fmt.Errorf("%d of %d %s actions failed", failed, len(entries), action)
}

// perform runs one action, prints its outcome, records it and prints the
// package's status after the refresh that follows every action.
func perform(ctx context.Context, action manager.Action, e reconcile.Entry, prior state.Filter) error {
	name := e.Package.Name

	var report *state.ActionReport
	if cfg.Output.Verbose && !cfg.General.DryRun {
		// Executor output streams straight to the terminal.
		runner.SetStream(ui.Out)
		defer runner.SetStream(nil)
		report = svc.Perform(ctx, action, name, prior)
	} else {
		sp := ui.NewSpinner(fmt.Sprintf("Running %s %s...", action, name))
		sp.Start()
		report = svc.Perform(ctx, action, name, prior)
		sp.Stop()
		ui.PrintOutcome(ui.Out, report.Outcome.Text())
	}

	if report.Succeeded() {
		ui.SuccessMsg("%s %s finished", action, name)
	} else {
		ui.ErrorMsg("%s %s failed: %v", action, name, report.Err)
	}

	record(action, e, report)

	switch {
	case report.State != nil:
		if now, ok := report.State.Find(name); ok {
			ui.MutedMsg("  %s: %s (installed %s, available %s)",
				name, ui.StatusLabel(now), ui.InstalledVersion(now), now.Package.Version)
		}
	case report.RefreshErr != nil:
		ui.WarningMsg("Could not refresh after %s: %v", action, report.RefreshErr)
	}

	return report.Err
}

// record appends the action to history when it is enabled. Failures to
// record are logged and otherwise ignored.
func record(action manager.Action, e reconcile.Entry, report *state.ActionReport) {
	path := historyPath()
	if path == "" {
		return
	}

	entry := history.ForEntry(action, e)
	entry.DryRun = cfg.General.DryRun
	entry.Complete(report.Outcome, report.Err)
	if err := history.Save(path, entry); err != nil {
		log.Warn("history: %v", err)
	}
}

// pick offers matching entries in a selection prompt when the user named
// no package on a terminal.
func pick(ctx context.Context, prompt string, match func(reconcile.Entry) bool) ([]string, error) {
	if !isTerminal() {
		return nil, ErrNoPackages
	}

	st, err := refresh(ctx, state.Filter{})
	if err != nil {
		return nil, err
	}

	var candidates []reconcile.Entry
	for _, e := range st.Entries {
		if match(e) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoPackages
	}

	e, err := ui.SelectEntry(candidates, prompt)
	if err != nil {
		return nil, err
	}
	return []string{e.Package.Name}, nil
}
