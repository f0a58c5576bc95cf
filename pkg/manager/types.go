// Package manager provides the core types shared by the catalog, manifest,
// reconciliation and presentation layers.
package manager

// Package represents a single AppImage package as listed by the remote
// catalog or recorded in the local manifest. Packages are matched by Name.
type Package struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
}

// Action is a command the core can ask the executor to perform.
type Action string

const (
	ActionNone    Action = ""
	ActionInstall Action = "install"
	ActionUpgrade Action = "upgrade"
	ActionRemove  Action = "remove"
)

// String returns a printable name for the action.
func (a Action) String() string {
	if a == ActionNone {
		return "none"
	}
	return string(a)
}

// Valid reports whether a names an executable action.
func (a Action) Valid() bool {
	switch a {
	case ActionInstall, ActionUpgrade, ActionRemove:
		return true
	}
	return false
}

// ParseAction converts a user supplied action name.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "install":
		return ActionInstall, true
	case "upgrade", "update":
		return ActionUpgrade, true
	case "remove", "uninstall", "rm":
		return ActionRemove, true
	}
	return ActionNone, false
}

// Outcome is the raw result of running an action through an Executor.
type Outcome struct {
	Success bool   `json:"success"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

// Text returns the combined output, stdout first.
func (o Outcome) Text() string {
	switch {
	case o.Stdout == "":
		return o.Stderr
	case o.Stderr == "":
		return o.Stdout
	}
	return o.Stdout + "\n" + o.Stderr
}

// Diagnostic returns the text best describing a failure: stderr when present,
// stdout otherwise.
func (o Outcome) Diagnostic() string {
	if o.Stderr != "" {
		return o.Stderr
	}
	return o.Stdout
}
