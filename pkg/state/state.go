// Package state assembles the presentation snapshot shown by the CLI and TUI
// and runs actions against it.
//
// A State is built in full by Refresh and never changed afterwards; callers
// replace the State they display instead of patching it.
package state

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"aipster/internal/log"
	"aipster/pkg/manager"
	"aipster/pkg/rank"
	"aipster/pkg/reconcile"
)

// Filter is the view selection applied by a refresh.
type Filter struct {
	InstalledOnly bool
	Query         string // Blank means no query
}

// HasQuery reports whether the filter carries a free-text query.
func (f Filter) HasQuery() bool {
	return rank.NormalizeQuery(f.Query) != ""
}

// State is an immutable snapshot of ranked, classified catalog entries.
type State struct {
	Filter
	Entries   []reconcile.Entry
	Counts    reconcile.Counts // Tallies over the whole catalog, not just Entries
	Source    string
	FetchedAt time.Time
}

// Find returns the displayed entry for name.
func (s *State) Find(name string) (reconcile.Entry, bool) {
	return reconcile.Find(s.Entries, name)
}

// Len returns the number of displayed entries.
func (s *State) Len() int {
	return len(s.Entries)
}

// Service builds States from a catalog source and a manifest store.
type Service struct {
	catalog  manager.CatalogSource
	manifest manager.ManifestStore
	executor manager.Executor
	ranker   *rank.Ranker

	now func() time.Time
}

// NewService wires the collaborators together. A nil ranker selects the
// default scorer.
func NewService(catalog manager.CatalogSource, manifest manager.ManifestStore, executor manager.Executor, ranker *rank.Ranker) *Service {
	if ranker == nil {
		ranker = rank.New(nil)
	}
	return &Service{
		catalog:  catalog,
		manifest: manifest,
		executor: executor,
		ranker:   ranker,
		now:      time.Now,
	}
}

// Catalog returns the catalog source.
func (s *Service) Catalog() manager.CatalogSource { return s.catalog }

// Manifest returns the manifest store.
func (s *Service) Manifest() manager.ManifestStore { return s.manifest }

// Ranker returns the ranker.
func (s *Service) Ranker() *rank.Ranker { return s.ranker }

// Refresh fetches the catalog and reads the manifest concurrently, then
// reconciles and ranks them under f. Either failure aborts the refresh and
// no State is returned.
func (s *Service) Refresh(ctx context.Context, f Filter) (*State, error) {
	var catalog, installed []manager.Package

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pkgs, err := s.catalog.Fetch(gCtx)
		if err != nil {
			return ensureKind(manager.ErrCatalogFetchFailed, s.catalog.Name(), err)
		}
		catalog = pkgs
		return nil
	})
	g.Go(func() error {
		pkgs, err := s.manifest.Get(gCtx)
		if err != nil {
			return ensureKind(manager.ErrManifestReadFailed, s.manifest.Path(), err)
		}
		installed = pkgs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := reconcile.Reconcile(catalog, installed)
	counts := reconcile.Count(entries)
	log.Debug("state: reconciled %d catalog entries against %d installed (%d upgradable)",
		counts.Total, len(installed), counts.Upgradable)

	f.Query = rank.NormalizeQuery(f.Query)
	return &State{
		Filter:    f,
		Entries:   s.ranker.Rank(entries, f.InstalledOnly, f.Query),
		Counts:    counts,
		Source:    s.catalog.Name(),
		FetchedAt: s.now(),
	}, nil
}

// ensureKind makes sure err carries kind so callers can rely on errors.Is.
func ensureKind(kind error, op string, err error) error {
	if manager.KindOf(err) != nil {
		return err
	}
	return manager.NewError(kind, op, err)
}

// ActionReport is what came of running one action, followed by the refresh
// that always comes after it.
type ActionReport struct {
	Action  manager.Action
	Package string
	Outcome manager.Outcome
	Err     error // ErrActionDispatchFailed or ErrActionExecutionFailed kind

	State      *State // Refreshed with the prior filter; nil when the refresh failed
	RefreshErr error
}

// Succeeded reports whether the action ran and succeeded.
func (r *ActionReport) Succeeded() bool {
	return r.Err == nil
}

// Run performs action on the named package without refreshing. Upgrades
// rerun the install path.
func (s *Service) Run(ctx context.Context, action manager.Action, name string) (manager.Outcome, error) {
	op := action.String() + " " + name

	if !action.Valid() {
		return manager.Outcome{}, manager.NewError(manager.ErrActionDispatchFailed, op,
			fmt.Errorf("unknown action %q", string(action)))
	}
	if s.executor == nil {
		return manager.Outcome{}, manager.NewError(manager.ErrActionDispatchFailed, op,
			fmt.Errorf("no executor configured"))
	}

	invoke := action
	if action == manager.ActionUpgrade {
		invoke = manager.ActionInstall
	}

	outcome, err := s.executor.Run(ctx, invoke, name)
	if err != nil {
		return outcome, ensureKind(manager.ErrActionDispatchFailed, op, err)
	}
	if !outcome.Success {
		e := manager.NewError(manager.ErrActionExecutionFailed, op, nil)
		e.Detail = outcome.Diagnostic()
		return outcome, e
	}
	return outcome, nil
}

// Perform runs action on the named package, then refreshes with prior
// regardless of how the action went. The action is not retried.
func (s *Service) Perform(ctx context.Context, action manager.Action, name string, prior Filter) *ActionReport {
	report := &ActionReport{Action: action, Package: name}

	report.Outcome, report.Err = s.Run(ctx, action, name)
	if report.Err != nil {
		log.Debug("state: %v", report.Err)
	}

	report.State, report.RefreshErr = s.Refresh(ctx, prior)
	return report
}
