// Package reconcile merges the remote catalog with the local manifest and
// classifies every catalog entry.
package reconcile

import (
	"aipster/pkg/manager"
	"aipster/pkg/version"
)

// Entry is a catalog package paired with its installed counterpart, if any.
type Entry struct {
	Package   manager.Package  // As listed by the catalog, never rewritten
	Installed *manager.Package // Manifest match, nil when not installed
	Action    manager.Action   // Primary action offered for the entry
}

// IsInstalled reports whether a manifest entry shares the package name.
func (e Entry) IsInstalled() bool {
	return e.Installed != nil
}

// CanInstall reports whether the package can be installed.
func (e Entry) CanInstall() bool {
	return e.Installed == nil
}

// CanUpgrade reports whether the catalog offers a newer version than the
// installed one.
func (e Entry) CanUpgrade() bool {
	return e.Installed != nil && version.Upgradable(*e.Installed, e.Package)
}

// CanRemove reports whether the package can be removed. Removal is offered
// for every installed package, upgradable or not.
func (e Entry) CanRemove() bool {
	return e.Installed != nil
}

// Can reports whether action applies to the entry.
func (e Entry) Can(action manager.Action) bool {
	switch action {
	case manager.ActionInstall:
		return e.CanInstall()
	case manager.ActionUpgrade:
		return e.CanUpgrade()
	case manager.ActionRemove:
		return e.CanRemove()
	}
	return false
}

// Actions returns every action offered for the entry, primary first.
func (e Entry) Actions() []manager.Action {
	switch {
	case e.CanInstall():
		return []manager.Action{manager.ActionInstall}
	case e.CanUpgrade():
		return []manager.Action{manager.ActionUpgrade, manager.ActionRemove}
	}
	return []manager.Action{manager.ActionRemove}
}

// InstalledVersion returns the installed version, or "" when not installed.
func (e Entry) InstalledVersion() string {
	if e.Installed == nil {
		return ""
	}
	return e.Installed.Version
}

// Status returns a short label for the entry's state.
func (e Entry) Status() string {
	switch {
	case e.CanInstall():
		return "available"
	case e.CanUpgrade():
		return "upgradable"
	}
	return "installed"
}

// Reconcile classifies every catalog package against the manifest. The
// result has one entry per catalog package, in catalog order. When the
// manifest lists a name more than once the first occurrence wins.
func Reconcile(catalog, manifest []manager.Package) []Entry {
	installed := make(map[string]*manager.Package, len(manifest))
	for i := range manifest {
		if _, exists := installed[manifest[i].Name]; !exists {
			pkg := manifest[i]
			installed[pkg.Name] = &pkg
		}
	}

	entries := make([]Entry, len(catalog))
	for i, pkg := range catalog {
		entry := Entry{Package: pkg, Installed: installed[pkg.Name]}

		switch {
		case entry.Installed == nil:
			entry.Action = manager.ActionInstall
		case version.Upgradable(*entry.Installed, pkg):
			entry.Action = manager.ActionUpgrade
		default:
			entry.Action = manager.ActionRemove
		}

		entries[i] = entry
	}

	return entries
}

// Find returns the first entry for name.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Package.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Counts summarizes a set of entries.
type Counts struct {
	Total      int
	Installed  int
	Upgradable int
}

// Count tallies entries by state.
func Count(entries []Entry) Counts {
	c := Counts{Total: len(entries)}
	for _, e := range entries {
		if e.IsInstalled() {
			c.Installed++
		}
		if e.Action == manager.ActionUpgrade {
			c.Upgradable++
		}
	}
	return c
}
