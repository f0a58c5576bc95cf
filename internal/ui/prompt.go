package ui

import (
	"errors"
	"fmt"
	"strings"

	"aipster/pkg/reconcile"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question. An empty answer or a failed read yields
// defaultYes; only ctrl+c is reported as an error.
func Confirm(question string, defaultYes bool) (bool, error) {
	p := promptui.Prompt{Label: question + " [y/N]", IsConfirm: true}
	if defaultYes {
		p.Label = question + " [Y/n]"
		p.Default = "y"
	}

	answer, err := p.Run()
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		return false, err
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case err != nil:
		return defaultYes, nil
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// entryItem is the view of an entry handed to promptui templates.
type entryItem struct {
	Name        string
	Installed   string
	Available   string
	Status      string
	Description string
	URL         string
}

func newEntryItem(e reconcile.Entry) entryItem {
	return entryItem{
		Name:        e.Package.Name,
		Installed:   InstalledVersion(e),
		Available:   e.Package.Version,
		Status:      e.Status(),
		Description: e.Package.Description,
		URL:         e.Package.URL,
	}
}

// SelectEntry prompts the user to select one of entries.
func SelectEntry(entries []reconcile.Entry, prompt string) (*reconcile.Entry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no packages to select from")
	}

	if len(entries) == 1 {
		return &entries[0], nil
	}

	items := make([]entryItem, len(entries))
	for i, e := range entries {
		items[i] = newEntryItem(e)
	}

	arrow, check := "▸", "✓"
	if !UseUnicode {
		arrow, check = ">", "*"
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   arrow + " {{ .Name | cyan }} {{ .Available | green }} ({{ .Status | yellow }})",
		Inactive: "  {{ .Name }} {{ .Available | faint }} ({{ .Status | faint }})",
		Selected: check + " {{ .Name | cyan }} {{ .Available | green }}",
		Details: `
--------- Package ----------
{{ "Name:" | faint }}	{{ .Name }}
{{ "Installed:" | faint }}	{{ .Installed }}
{{ "Available:" | faint }}	{{ .Available }}
{{ "Description:" | faint }}	{{ .Description }}`,
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher: func(input string, i int) bool {
			return strings.Contains(strings.ToLower(items[i].Name), strings.ToLower(input))
		},
	}

	index, _, err := p.Run()
	if err != nil {
		return nil, err
	}

	return &entries[index], nil
}
