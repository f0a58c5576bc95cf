package manager

import "context"

// CatalogSource supplies the full remote package list.
type CatalogSource interface {
	// Name identifies the source in messages (usually a URL or path).
	Name() string

	// Fetch returns every package in the catalog. A failed fetch returns an
	// error of kind ErrCatalogFetchFailed and no packages.
	Fetch(ctx context.Context) ([]Package, error)
}

// ManifestStore supplies the locally installed package list.
type ManifestStore interface {
	// Path returns where the manifest lives.
	Path() string

	// Get returns the installed packages, bootstrapping an empty manifest
	// when none exists yet.
	Get(ctx context.Context) ([]Package, error)
}

// Executor runs install/remove commands for a package. An error is returned
// only when the command could not be dispatched; a command that ran and
// failed reports it through Outcome.Success.
type Executor interface {
	Run(ctx context.Context, action Action, name string) (Outcome, error)
}
