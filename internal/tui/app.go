package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"aipster/internal/config"
	"aipster/internal/history"
	"aipster/internal/log"
	"aipster/internal/ui"
	"aipster/pkg/manager"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

const (
	historyLimit = 100
	nameWidth    = 24
	versionWidth = 12
)

// Results of background commands. seq ties a result to the refresh that
// produced it.
type (
	refreshedMsg struct {
		seq   int
		state *state.State
		err   error
	}

	actionDoneMsg struct {
		seq        int
		report     *state.ActionReport
		historyErr error
	}

	historyLoadedMsg struct {
		entries []history.Entry
		err     error
	}
)

// App is the tea.Model of the TUI: Model plus the bubbles widgets.
type App struct {
	*Model
	spinner   spinner.Model
	textInput textinput.Model
}

// NewApp creates a new TUI application showing service's state through
// filter. An empty historyPath disables history.
func NewApp(service *state.Service, cfg *config.Config, historyPath string, filter state.Filter) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Spinner

	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 100
	ti.Width = 40

	m := NewModel(service, cfg, historyPath)
	m.filter = filter

	return &App{
		Model:     m,
		spinner:   sp,
		textInput: ti,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.refresh(a.filter),
		a.loadHistory(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.ready = true

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case refreshedMsg:
		if msg.seq != a.refreshSeq {
			return a, nil
		}
		if !a.acting {
			a.SetLoading(false, "")
		}
		if msg.err != nil {
			// The displayed state stays as it was.
			if a.current != nil {
				a.filter = a.current.Filter
			}
			a.SetError(msg.err.Error())
			return a, nil
		}
		a.errorMsg = ""
		a.Publish(msg.state)

	case actionDoneMsg:
		return a, a.finishAction(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			log.Warn("history: %v", msg.err)
			return a, nil
		}
		a.SetHistory(msg.entries)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	// The dialog swallows every key while open.
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			return a.ConfirmYes()
		case "n", "N", "esc", "q":
			a.ConfirmNo()
		}
		return nil
	}

	if a.inputMode {
		switch msg.String() {
		case "enter":
			query := a.StopInput()
			a.textInput.Blur()
			f := a.filter
			f.Query = query
			return a.refresh(f)
		case "esc":
			a.StopInput()
			a.textInput.Blur()
			return nil
		default:
			var cmd tea.Cmd
			a.textInput, cmd = a.textInput.Update(msg)
			a.inputValue = a.textInput.Value()
			return cmd
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.ToggleHelp()

	case key.Matches(msg, a.keys.Tab1):
		a.SetTab(0)
	case key.Matches(msg, a.keys.Tab2):
		a.SetTab(1)
	case key.Matches(msg, a.keys.Left):
		a.PrevTab()
	case key.Matches(msg, a.keys.Right):
		a.NextTab()

	case key.Matches(msg, a.keys.Cancel):
		a.ClearMessages()
		switch {
		case a.activeView == ViewDetails || a.activeView == ViewHelp:
			a.GoBack()
		case a.activeView == ViewPackages && a.filter.HasQuery():
			f := a.filter
			f.Query = ""
			return a.refresh(f)
		}

	// Navigation
	case key.Matches(msg, a.keys.Up):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Top):
		a.GoToTop()
	case key.Matches(msg, a.keys.Bottom):
		a.GoToBottom()

	case key.Matches(msg, a.keys.Enter):
		a.ShowDetails()

	case key.Matches(msg, a.keys.Search):
		a.startSearch()

	case key.Matches(msg, a.keys.Filter):
		f := a.filter
		f.InstalledOnly = !f.InstalledOnly
		return a.refresh(f)

	case key.Matches(msg, a.keys.Reload):
		return tea.Batch(a.refresh(a.filter), a.loadHistory())

	case key.Matches(msg, a.keys.Install):
		return a.requestAction(manager.ActionInstall)
	case key.Matches(msg, a.keys.Upgrade):
		return a.requestAction(manager.ActionUpgrade)
	case key.Matches(msg, a.keys.Remove):
		return a.requestAction(manager.ActionRemove)
	}

	return nil
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.quitting {
		return ""
	}

	if a.showConfirm {
		return a.renderDialog()
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	b.WriteString(a.renderContent())
	b.WriteString(a.renderFooter())
	return b.String()
}

// renderHeader shows the title and, right aligned, the spinner or the
// latest status message.
func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" aipster - AppImage manager ")

	var right string
	if a.loading {
		right = a.spinner.View() + " " + a.loadingMsg
	} else if a.errorMsg != "" {
		right = a.styles.Error.Render(a.errorMsg)
	} else if a.successMsg != "" {
		right = a.styles.Success.Render(a.successMsg)
	}

	room := a.width - lipgloss.Width(title) - 2
	if room < 0 {
		room = 0
	}
	right = lipgloss.NewStyle().MaxWidth(room).Render(right)

	padding := room - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return title + strings.Repeat(" ", padding) + right
}

func (a *App) renderTabs() string {
	var tabs []string
	for i, tab := range a.tabs {
		style := a.styles.TabInactive
		if i == a.activeTab {
			style = a.styles.TabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d] %s", i+1, tab.Name)))
	}

	return a.styles.TabBar.
		Width(a.width).
		Render(strings.Join(tabs, a.styles.TabSeparator.String()))
}

// renderContent fills the space between the tab bar and the footer.
func (a *App) renderContent() string {
	height := a.height - 3 // header, tabs, footer
	if height < 1 {
		height = 1
	}

	var content string
	switch a.activeView {
	case ViewPackages:
		content = a.renderPackageList()
	case ViewHistory:
		content = a.renderHistoryView()
	case ViewDetails:
		content = a.renderDetailsView()
	case ViewHelp:
		content = a.renderHelpView()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(content)
}

// renderPackageList renders the reconciled entries of the current state
func (a *App) renderPackageList() string {
	var b strings.Builder

	if a.inputMode {
		b.WriteString(a.styles.InputPrompt.Render(a.inputPrompt))
		b.WriteString(a.textInput.View())
		b.WriteString("\n\n")
	}

	if a.current == nil {
		b.WriteString(a.styles.Title.Render("Packages"))
		b.WriteString("\n\n")
		if a.loading {
			b.WriteString(a.styles.Description.Render("Fetching catalog..."))
		} else {
			b.WriteString(a.styles.Description.Render("No catalog loaded, press R to retry"))
		}
		return b.String()
	}

	b.WriteString(a.styles.Title.Render(ui.Summary(a.current)))
	b.WriteString("\n\n")

	entries := a.current.Entries
	if len(entries) == 0 {
		b.WriteString(a.styles.Description.Render("No packages found"))
		return b.String()
	}

	visibleHeight := a.VisibleHeight()
	pos := a.lists[ViewPackages]
	scroll, cursor := pos.offset, pos.cursor

	end := scroll + visibleHeight
	if end > len(entries) {
		end = len(entries)
	}
	for i := scroll; i < end; i++ {
		b.WriteString(a.renderEntryLine(entries[i], i == cursor))
		b.WriteString("\n")
	}

	if len(entries) > visibleHeight {
		b.WriteString(a.styles.Description.Render(fmt.Sprintf("\n  (%d/%d)", cursor+1, len(entries))))
	}

	return b.String()
}

// renderEntryLine renders one entry as a fixed-width row
func (a *App) renderEntryLine(e reconcile.Entry, selected bool) string {
	cursor := "  "
	nameStyle := a.styles.Row
	if selected {
		cursor = a.styles.Cursor.Render("> ")
		nameStyle = a.styles.PackageName
	}

	name := nameStyle.Render(column(e.Package.Name, nameWidth))
	installed := column(ui.InstalledVersion(e), versionWidth)
	available := a.styles.PackageVersion.Render(column(e.Package.Version, versionWidth))
	badge := StatusBadge(e)

	line := fmt.Sprintf("%s%s %s %s %s", cursor, name, installed, available, badge)

	descWidth := a.width - lipgloss.Width(line) - 2
	if descWidth > 3 {
		line += " " + a.styles.Description.Render(ui.Truncate(e.Package.Description, descWidth))
	}
	return line
}

// column truncates or pads s to exactly width display columns
func column(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

// renderHistoryView renders the recorded actions
func (a *App) renderHistoryView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Action History"))
	b.WriteString("\n\n")

	if a.historyPath == "" {
		b.WriteString(a.styles.Description.Render("History is disabled"))
		return b.String()
	}
	if len(a.historyEntries) == 0 {
		b.WriteString(a.styles.Description.Render("No history entries"))
		return b.String()
	}

	pos := a.lists[ViewHistory]
	scroll, cursor := pos.offset, pos.cursor
	end := scroll + a.VisibleHeight()
	if end > len(a.historyEntries) {
		end = len(a.historyEntries)
	}

	for i := scroll; i < end; i++ {
		entry := a.historyEntries[i]

		status := a.styles.Success.Render("OK")
		if !entry.Success {
			status = a.styles.Error.Render("FAILED")
		}
		if entry.DryRun {
			status += a.styles.Description.Render(" dry-run")
		}

		prefix := "  "
		if i == cursor {
			prefix = a.styles.Cursor.Render("> ")
		}

		b.WriteString(fmt.Sprintf("%s%s  %-8s  %s %s  %s\n",
			prefix,
			entry.Timestamp.Format("2006-01-02 15:04"),
			entry.Action,
			column(entry.Package, nameWidth),
			column(entry.Versions(), 2*versionWidth),
			status))
	}

	return b.String()
}

// renderDetailsView renders the selected entry
func (a *App) renderDetailsView() string {
	var b strings.Builder

	if a.selected == nil {
		b.WriteString(a.styles.Error.Render("No package selected"))
		return b.String()
	}
	e := *a.selected

	b.WriteString(a.styles.Title.Render(e.Package.Name))
	b.WriteString(" ")
	b.WriteString(StatusBadge(e))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Available: "))
	b.WriteString(a.styles.PackageVersion.Render(e.Package.Version))
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render("Installed: "))
	b.WriteString(ui.InstalledVersion(e))
	b.WriteString("\n\n")

	if e.Package.Description != "" {
		b.WriteString(a.styles.Subtitle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(a.styles.Description.Render(e.Package.Description))
		b.WriteString("\n\n")
	}

	if e.Package.URL != "" {
		b.WriteString(a.styles.Subtitle.Render("URL: "))
		b.WriteString(a.styles.Info.Render(e.Package.URL))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.Subtitle.Render("Actions"))
	b.WriteString("\n")
	for _, action := range e.Actions() {
		b.WriteString(fmt.Sprintf("  [%s] %s\n", a.actionKey(action), action))
	}
	b.WriteString("  [esc] back\n")

	if a.lastPackage == e.Package.Name && a.lastOutput != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Last output"))
		b.WriteString("\n")
		b.WriteString(a.styles.Output.Render(a.lastOutput))
		b.WriteString("\n")
	}

	return b.String()
}

// actionKey returns the first key bound to action
func (a *App) actionKey(action manager.Action) string {
	switch action {
	case manager.ActionInstall:
		return a.keys.Install.Help().Key
	case manager.ActionUpgrade:
		return a.keys.Upgrade.Help().Key
	case manager.ActionRemove:
		return a.keys.Remove.Help().Key
	}
	return "?"
}

// renderHelpView renders the keybindings
func (a *App) renderHelpView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for i, row := range a.keys.FullHelp() {
		if i < len(helpSections) {
			b.WriteString(a.styles.Subtitle.Render(helpSections[i]))
			b.WriteString("\n")
		}
		for _, binding := range row {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(a.styles.HelpKey.Render(column(h.Key, 12)))
			b.WriteString(" ")
			b.WriteString(a.styles.HelpDesc.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderFooter lists the key hints that apply to the current view.
func (a *App) renderFooter() string {
	var hints []string

	switch a.activeView {
	case ViewPackages, ViewDetails:
		if e := a.SelectedEntry(); e != nil {
			for _, action := range e.Actions() {
				hints = append(hints, a.actionKey(action)+":"+action.String())
			}
		}
		if a.activeView == ViewPackages {
			filter := "f:installed"
			if a.filter.InstalledOnly {
				filter = "f:all"
			}
			hints = append(hints, "/:search", filter, "enter:details")
		} else {
			hints = append(hints, "esc:back")
		}
	}

	hints = append(hints, "R:refresh", "?:help", "q:quit")

	return a.styles.Footer.
		Width(a.width).
		Render(strings.Join(hints, "  "))
}

// renderDialog renders the confirmation dialog centered on screen
func (a *App) renderDialog() string {
	dialog := a.styles.Dialog.Render(
		a.styles.DialogTitle.Render(a.confirmTitle) + "\n\n" +
			Badge("[Y]es", ColorPrimary) + " " +
			a.styles.Description.Render("[N]o"),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars(" "))
}

// startSearch opens the search input prefilled with the current query
func (a *App) startSearch() {
	a.SetTab(0)
	a.StartInput("Search: ")
	a.textInput.SetValue(a.filter.Query)
	a.textInput.CursorEnd()
	a.inputValue = a.filter.Query
	a.textInput.Focus()
}

// requestAction asks to confirm action on the selected entry, unless
// auto-confirm is set.
func (a *App) requestAction(action manager.Action) tea.Cmd {
	if a.activeView != ViewPackages && a.activeView != ViewDetails {
		return nil
	}
	selected := a.SelectedEntry()
	if selected == nil {
		return nil
	}
	e := *selected

	if !e.Can(action) {
		a.SetError(fmt.Sprintf("cannot %s %s: %s", action, e.Package.Name, e.Status()))
		return nil
	}
	if a.acting {
		a.SetError("another action is still running")
		return nil
	}

	if a.config.General.AutoConfirm {
		return a.perform(action, e)
	}
	a.ShowConfirm(confirmTitle(action, e), func() tea.Cmd {
		return a.perform(action, e)
	})
	return nil
}

func confirmTitle(action manager.Action, e reconcile.Entry) string {
	name := e.Package.Name
	switch action {
	case manager.ActionInstall:
		return fmt.Sprintf("Install %s %s?", name, e.Package.Version)
	case manager.ActionUpgrade:
		return fmt.Sprintf("Upgrade %s %s -> %s?", name, e.InstalledVersion(), e.Package.Version)
	case manager.ActionRemove:
		return fmt.Sprintf("Remove %s %s?", name, e.InstalledVersion())
	}
	return fmt.Sprintf("%s %s?", action, name)
}

// finishAction shows the result of an action and publishes the state
// refreshed after it.
func (a *App) finishAction(msg actionDoneMsg) tea.Cmd {
	r := msg.report
	a.acting = false
	a.SetLoading(false, "")
	a.lastPackage = r.Package
	a.lastOutput = strings.TrimSpace(r.Outcome.Text())

	if r.Err != nil {
		a.SetError(r.Err.Error())
	} else {
		a.SetSuccess(fmt.Sprintf("%s %s done", r.Action, r.Package))
	}

	if msg.historyErr != nil {
		log.Warn("history: %v", msg.historyErr)
	}

	cmds := []tea.Cmd{a.loadHistory()}
	switch {
	case r.State == nil:
		refreshErr := fmt.Sprintf("refresh after %s %s failed: %v", r.Action, r.Package, r.RefreshErr)
		if r.Err != nil {
			refreshErr = r.Err.Error() + "; " + refreshErr
		}
		a.SetError(refreshErr)
	case msg.seq == a.refreshSeq:
		a.Publish(r.State)
	default:
		// A newer refresh was requested while the action ran and may have
		// read the manifest before the action changed it.
		cmds = append(cmds, a.refresh(a.filter))
	}
	return tea.Batch(cmds...)
}

// Async commands

// refresh requests a new state for f. Only the latest request is published.
func (a *App) refresh(f state.Filter) tea.Cmd {
	a.filter = f
	a.refreshSeq++
	seq := a.refreshSeq
	if !a.acting {
		a.SetLoading(true, "Refreshing...")
	}

	svc := a.service
	return func() tea.Msg {
		st, err := svc.Refresh(context.Background(), f)
		return refreshedMsg{seq: seq, state: st, err: err}
	}
}

// perform runs action on e, records it and refreshes with the current filter.
func (a *App) perform(action manager.Action, e reconcile.Entry) tea.Cmd {
	a.acting = true
	a.SetLoading(true, fmt.Sprintf("Running %s %s...", action, e.Package.Name))
	a.refreshSeq++
	seq := a.refreshSeq

	svc, prior, path := a.service, a.filter, a.historyPath
	dryRun := a.config.General.DryRun
	return func() tea.Msg {
		report := svc.Perform(context.Background(), action, e.Package.Name, prior)

		var historyErr error
		if path != "" {
			entry := history.ForEntry(action, e)
			entry.DryRun = dryRun
			entry.Complete(report.Outcome, report.Err)
			historyErr = history.Save(path, entry)
		}
		return actionDoneMsg{seq: seq, report: report, historyErr: historyErr}
	}
}

func (a *App) loadHistory() tea.Cmd {
	path := a.historyPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		store, err := history.OpenAt(path)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		defer store.Close()

		entries, err := store.List(historyLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// Run blocks until the user quits the TUI.
func Run(service *state.Service, cfg *config.Config, historyPath string, filter state.Filter) error {
	app := NewApp(service, cfg, historyPath, filter)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
