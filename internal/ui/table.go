package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"

	"aipster/internal/history"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

// NoneVersion is shown for packages that are not installed.
const NoneVersion = "None"

// descWidth is the display width descriptions are cut to in tables.
const descWidth = 50

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a new table with default styling.
func NewTable(header []string) *Table {
	return NewTableWriter(Out, header)
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	return &Table{
		writer:  tw,
		headers: header,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render outputs the headers followed by the rows.
func (t *Table) Render() {
	if len(t.headers) > 0 {
		headerRow := make([]string, len(t.headers))
		for i, h := range t.headers {
			headerRow[i] = Label.Sprint(strings.ToUpper(h))
		}
		fmt.Fprintln(t.writer, strings.Join(headerRow, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, strings.Join(row, "\t"))
	}
	t.writer.Flush()
}

// Truncate cuts s to width display columns, marking the cut with "...".
func Truncate(s string, width int) string {
	return runewidth.Truncate(strings.Join(strings.Fields(s), " "), width, "...")
}

// InstalledVersion returns the installed version or NoneVersion.
func InstalledVersion(e reconcile.Entry) string {
	if !e.IsInstalled() {
		return NoneVersion
	}
	return e.InstalledVersion()
}

// StatusLabel returns the coloured status of an entry.
func StatusLabel(e reconcile.Entry) string {
	switch {
	case e.CanUpgrade():
		return Upgradable.Sprint(e.Status())
	case e.IsInstalled():
		return Installed.Sprint(e.Status())
	}
	return NotInstalled.Sprint(e.Status())
}

// PrintEntries prints reconciled entries in a formatted table.
func PrintEntries(w io.Writer, entries []reconcile.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No packages found"))
		return
	}

	t := NewTableWriter(w, []string{"name", "installed", "available", "status", "description"})
	for _, e := range entries {
		t.AddRow([]string{
			PackageName.Sprint(e.Package.Name),
			InstalledVersion(e),
			PackageVersion.Sprint(e.Package.Version),
			StatusLabel(e),
			Truncate(e.Package.Description, descWidth),
		})
	}
	t.Render()
}

// PrintState prints a refreshed state with a one-line summary.
func PrintState(w io.Writer, st *state.State) {
	PrintEntries(w, st.Entries)
	fmt.Fprintln(w)
	fmt.Fprintln(w, Muted.Sprint(Summary(st)))
}

// Summary describes the counts behind a state, e.g.
// "3 of 120 packages shown, 10 installed, 2 upgradable".
func Summary(st *state.State) string {
	s := fmt.Sprintf("%d of %d packages shown, %d installed, %d upgradable",
		st.Len(), st.Counts.Total, st.Counts.Installed, st.Counts.Upgradable)
	if st.HasQuery() {
		s += fmt.Sprintf(" (query %q)", st.Query)
	}
	if st.InstalledOnly {
		s += " (installed only)"
	}
	return s
}

// PrintEntryInfo prints the details of one entry.
func PrintEntryInfo(w io.Writer, e reconcile.Entry) {
	fmt.Fprintln(w, Header.Sprint("\nPackage Information"))

	printField(w, "Name", e.Package.Name)
	if e.Package.Description != "" {
		printField(w, "Description", e.Package.Description)
	}
	printField(w, "Installed", InstalledVersion(e))
	printField(w, "Available", e.Package.Version)
	printField(w, "Status", StatusLabel(e))
	if e.Package.URL != "" {
		printField(w, "URL", e.Package.URL)
	}

	actions := make([]string, 0, 2)
	for _, a := range e.Actions() {
		actions = append(actions, a.String())
	}
	printField(w, "Actions", strings.Join(actions, ", "))
}

// printField prints a single field with formatting.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Info.Sprint(label), value)
}

// PrintHistory prints history entries, newest first.
func PrintHistory(w io.Writer, entries []history.Entry, showOutput bool) {
	if len(entries) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No history recorded"))
		return
	}

	t := NewTableWriter(w, []string{"time", "action", "package", "version", "result"})
	for _, e := range entries {
		result := Installed.Sprint("ok")
		if !e.Success {
			result = Error.Sprint("failed")
		}
		if e.DryRun {
			result += " " + Muted.Sprint("(dry-run)")
		}
		t.AddRow([]string{e.FormatTime(), e.Action.String(), e.Package, e.Versions(), result})
	}
	t.Render()

	if !showOutput {
		return
	}
	for _, e := range entries {
		if e.Output == "" && e.Error == "" {
			continue
		}
		fmt.Fprintf(w, "\n%s %s %s\n", Header.Sprint(e.FormatTime()), e.Action, e.Package)
		if e.Error != "" {
			fmt.Fprintln(w, Error.Sprint(e.Error))
		}
		if e.Output != "" {
			fmt.Fprintln(w, Muted.Sprint(e.Output))
		}
	}
}

// PrintOutcome prints executor output below an action result.
func PrintOutcome(w io.Writer, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, Muted.Sprint("  "+line))
	}
}
