// Package history provides action history tracking with BoltDB.
package history

import (
	"time"

	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
)

// maxOutput bounds how much executor output is stored per entry.
const maxOutput = 8 << 10

// Entry represents a single performed action.
type Entry struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Action      manager.Action `json:"action"`
	Package     string         `json:"package"`
	FromVersion string         `json:"from_version,omitempty"` // Installed version before the action
	ToVersion   string         `json:"to_version,omitempty"`   // Catalog version for install/upgrade
	Success     bool           `json:"success"`
	DryRun      bool           `json:"dry_run,omitempty"`
	Error       string         `json:"error,omitempty"`
	Output      string         `json:"output,omitempty"`
}

// NewEntry creates a new history entry.
func NewEntry(action manager.Action, pkg string) *Entry {
	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Action:    action,
		Package:   pkg,
		Success:   false, // Will be updated after the action completes
	}
}

// ForEntry creates an entry for running action on a reconciled package,
// with the versions it moves between.
func ForEntry(action manager.Action, e reconcile.Entry) *Entry {
	entry := NewEntry(action, e.Package.Name)
	entry.FromVersion = e.InstalledVersion()
	if action != manager.ActionRemove {
		entry.ToVersion = e.Package.Version
	}
	return entry
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
	e.Error = ""
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// Complete fills in the result of running the action.
func (e *Entry) Complete(outcome manager.Outcome, err error) {
	e.Output = truncate(outcome.Text(), maxOutput)
	if err != nil {
		e.MarkFailed(err)
		return
	}
	e.MarkSuccess()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n[truncated]"
}

// generateID generates a unique ID for the entry.
func generateID() string {
	return time.Now().Format("20060102150405.000000")
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Versions describes the version change, e.g. "1.0 -> 1.1".
func (e *Entry) Versions() string {
	switch {
	case e.FromVersion != "" && e.ToVersion != "" && e.FromVersion != e.ToVersion:
		return e.FromVersion + " -> " + e.ToVersion
	case e.ToVersion != "":
		return e.ToVersion
	}
	return e.FromVersion
}

// Summary returns a brief summary of the action.
func (e *Entry) Summary() string {
	status := "success"
	if !e.Success {
		status = "failed"
	}
	if e.DryRun {
		status += ", dry-run"
	}

	s := e.FormatTime() + " " + e.Action.String() + " " + e.Package
	if v := e.Versions(); v != "" {
		s += " " + v
	}
	return s + " (" + status + ")"
}
