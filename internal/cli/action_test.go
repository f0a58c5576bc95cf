package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aipster/internal/config"
	"aipster/internal/ui"
	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

const testCatalog = `[
  {"name": "krita", "version": "5.2", "description": "Painting", "url": "https://krita.org"},
  {"name": "gimp", "version": "2.10", "description": "Image editor"},
  {"name": "inkscape", "version": "1.3", "description": "Vector graphics"}
]`

// setup points the global service at a file catalog, a temporary manifest
// with krita 5.1 installed and a shell script standing in for aip-man.
func setup(t *testing.T, script string) string {
	t.Helper()
	ui.Init(false, false)
	out, errOut := ui.Out, ui.Err
	ui.Out, ui.Err = io.Discard, io.Discard
	t.Cleanup(func() { ui.Out, ui.Err = out, errOut })

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "pkgs.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0644))

	manifestPath := filepath.Join(dir, "Applications", "aip_man_pkg_list.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(manifestPath), 0755))
	require.NoError(t, os.WriteFile(manifestPath, []byte(`[{"name": "krita", "version": "5.1"}]`), 0644))

	binary := filepath.Join(dir, "aip-man")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"+script+"\n"), 0755))

	c := config.Default()
	c.Catalog.URL = catalogPath
	c.Manifest.Path = manifestPath
	c.Executor.Binary = binary
	c.General.AutoConfirm = true
	c.General.History = false
	cfg = c

	var err error
	svc, err = newService(c)
	require.NoError(t, err)
	return dir
}

func TestCheckAction(t *testing.T) {
	available := reconcile.Entry{Package: manager.Package{Name: "gimp", Version: "2.10"}}
	current := reconcile.Entry{
		Package:   manager.Package{Name: "inkscape", Version: "1.3"},
		Installed: &manager.Package{Name: "inkscape", Version: "1.3"},
	}
	outdated := reconcile.Entry{
		Package:   manager.Package{Name: "krita", Version: "5.2"},
		Installed: &manager.Package{Name: "krita", Version: "5.1"},
		Action:    manager.ActionUpgrade,
	}

	tests := []struct {
		name   string
		action manager.Action
		entry  reconcile.Entry
		want   error
	}{
		{"install available", manager.ActionInstall, available, nil},
		{"install installed", manager.ActionInstall, current, ErrAlreadyInstalled},
		{"upgrade outdated", manager.ActionUpgrade, outdated, nil},
		{"upgrade current", manager.ActionUpgrade, current, ErrNotUpgradable},
		{"upgrade available", manager.ActionUpgrade, available, ErrNotInstalled},
		{"remove installed", manager.ActionRemove, current, nil},
		{"remove outdated", manager.ActionRemove, outdated, nil},
		{"remove available", manager.ActionRemove, available, ErrNotInstalled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAction(tt.action, tt.entry)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDescribe(t *testing.T) {
	e := reconcile.Entry{
		Package:   manager.Package{Name: "krita", Version: "5.2"},
		Installed: &manager.Package{Name: "krita", Version: "5.1"},
	}
	assert.Equal(t, "upgrade krita 5.1 -> 5.2", describe(manager.ActionUpgrade, e))
	assert.Equal(t, "remove krita 5.1", describe(manager.ActionRemove, e))
	assert.Equal(t, "install krita 5.2", describe(manager.ActionInstall, e))
}

func TestLimitState(t *testing.T) {
	st := &state.State{Entries: make([]reconcile.Entry, 5)}

	assert.Same(t, st, limitState(st, 0))
	assert.Same(t, st, limitState(st, 5))

	limited := limitState(st, 2)
	assert.Equal(t, 2, limited.Len())
	assert.Equal(t, 5, st.Len())
}

func TestLookupSuggests(t *testing.T) {
	setup(t, "exit 0")
	st, err := svc.Refresh(context.Background(), state.Filter{})
	require.NoError(t, err)

	e, err := lookup(st, "krita")
	require.NoError(t, err)
	assert.Equal(t, "5.1", e.InstalledVersion())

	_, err = lookup(st, "krit")
	assert.ErrorIs(t, err, ErrPackageNotFound)
	assert.Contains(t, err.Error(), "krita")
}

func TestRunActionsValidation(t *testing.T) {
	setup(t, "exit 0")
	ctx := context.Background()

	assert.ErrorIs(t, runActions(ctx, manager.ActionInstall, nil), ErrNoPackages)
	assert.ErrorIs(t, runActions(ctx, manager.ActionInstall, []string{"krita"}), ErrAlreadyInstalled)
	assert.ErrorIs(t, runActions(ctx, manager.ActionUpgrade, []string{"gimp"}), ErrNotInstalled)
	assert.ErrorIs(t, runActions(ctx, manager.ActionRemove, []string{"nope"}), ErrPackageNotFound)

	// One bad name stops the whole batch before anything runs.
	assert.ErrorIs(t, runActions(ctx, manager.ActionInstall, []string{"gimp", "krita"}), ErrAlreadyInstalled)
}

func TestRunActionsUpgradeUsesInstallVerb(t *testing.T) {
	dir := setup(t, `echo "$@" >> "$(dirname "$0")/calls"`)

	require.NoError(t, runActions(context.Background(), manager.ActionUpgrade, []string{"krita"}))

	calls, err := os.ReadFile(filepath.Join(dir, "calls"))
	require.NoError(t, err)
	assert.Equal(t, "install krita\n", string(calls))
}

func TestRunActionsRunsRepeatedNameOnce(t *testing.T) {
	dir := setup(t, `echo "$@" >> "$(dirname "$0")/calls"`)

	require.NoError(t, runActions(context.Background(), manager.ActionInstall, []string{"gimp", "inkscape", "gimp"}))

	calls, err := os.ReadFile(filepath.Join(dir, "calls"))
	require.NoError(t, err)
	assert.Equal(t, "install gimp\ninstall inkscape\n", string(calls))
}

func TestPerformAllSkipsDuplicateEntries(t *testing.T) {
	dir := setup(t, `echo "$@" >> "$(dirname "$0")/calls"`)
	krita := reconcile.Entry{
		Package:   manager.Package{Name: "krita", Version: "5.2"},
		Installed: &manager.Package{Name: "krita", Version: "5.1"},
		Action:    manager.ActionUpgrade,
	}

	require.NoError(t, performAll(context.Background(), manager.ActionUpgrade, []reconcile.Entry{krita, krita}, state.Filter{}))

	calls, err := os.ReadFile(filepath.Join(dir, "calls"))
	require.NoError(t, err)
	assert.Equal(t, "install krita\n", string(calls))
}

func TestRunActionsExecutionFailure(t *testing.T) {
	setup(t, `echo "$2 is busy" >&2; exit 2`)

	err := runActions(context.Background(), manager.ActionRemove, []string{"krita"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, manager.ErrActionExecutionFailed))
	assert.Contains(t, err.Error(), "krita is busy")
}

func TestRunActionsCountsFailures(t *testing.T) {
	setup(t, "exit 1")

	err := runActions(context.Background(), manager.ActionInstall, []string{"gimp", "inkscape"})
	require.Error(t, err)
	assert.Equal(t, "2 of 2 install actions failed", err.Error())
}

func TestRunActionsDryRun(t *testing.T) {
	dir := setup(t, `echo "$@" >> "$(dirname "$0")/calls"`)
	cfg.General.DryRun = true
	runner.SetDryRun(true)

	require.NoError(t, runActions(context.Background(), manager.ActionInstall, []string{"gimp"}))

	_, err := os.Stat(filepath.Join(dir, "calls"))
	assert.True(t, os.IsNotExist(err), "dry run should not execute")
}
