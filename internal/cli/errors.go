package cli

import "errors"

var (
	// ErrNoPackages is returned when no packages are specified.
	ErrNoPackages = errors.New("no packages specified")

	// ErrPackageNotFound is returned when a package is not in the catalog.
	ErrPackageNotFound = errors.New("package not found in catalog")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")

	// ErrNotInstalled is returned when removing or upgrading a package that
	// is not installed.
	ErrNotInstalled = errors.New("package is not installed")

	// ErrAlreadyInstalled is returned when installing an installed package.
	ErrAlreadyInstalled = errors.New("package is already installed")

	// ErrNotUpgradable is returned when the installed version is current.
	ErrNotUpgradable = errors.New("package is already up to date")
)
