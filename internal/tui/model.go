package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"aipster/internal/config"
	"aipster/internal/history"
	"aipster/pkg/reconcile"
	"aipster/pkg/state"
)

// View identifies a screen of the TUI.
type View int

const (
	ViewPackages View = iota
	ViewHistory
	ViewDetails
	ViewHelp
)

// Tab is a screen reachable from the tab bar.
type Tab struct {
	Name string
	View View
}

func DefaultTabs() []Tab {
	return []Tab{
		{Name: "Packages", View: ViewPackages},
		{Name: "History", View: ViewHistory},
	}
}

// listPos is the cursor and first visible row of a scrolling list.
type listPos struct {
	cursor int
	offset int
}

// follow scrolls so the cursor is inside a window of visible rows.
func (p *listPos) follow(visible int) {
	switch {
	case p.cursor < p.offset:
		p.offset = p.cursor
	case p.cursor >= p.offset+visible:
		p.offset = p.cursor - visible + 1
	}
}

// moveTo places the cursor on row i of n, clamped.
func (p *listPos) moveTo(i, n, visible int) {
	if n == 0 {
		return
	}
	p.cursor = max(0, min(i, n-1))
	p.follow(visible)
}

func (p *listPos) reset() { *p = listPos{} }

// Model is the state shared by every view. App drives it from tea messages.
type Model struct {
	ready    bool
	quitting bool

	width  int
	height int

	tabs       []Tab
	activeTab  int
	activeView View
	prevView   View

	service     *state.Service
	config      *config.Config
	historyPath string // empty disables history

	current    *state.State
	filter     state.Filter // filter of the newest refresh request
	refreshSeq int

	historyEntries []history.Entry

	selected    *reconcile.Entry // entry shown by ViewDetails
	acting      bool
	lastPackage string
	lastOutput  string

	loading     bool
	loadingMsg  string
	errorMsg    string
	successMsg  string
	inputMode   bool
	inputPrompt string
	inputValue  string

	lists map[View]*listPos

	styles *Styles
	keys   KeyMap

	showConfirm   bool
	confirmTitle  string
	confirmAction func() tea.Cmd
}

// NewModel returns a model over service. A nil cfg means defaults.
func NewModel(service *state.Service, cfg *config.Config, historyPath string) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Model{
		tabs:        DefaultTabs(),
		activeView:  ViewPackages,
		service:     service,
		config:      cfg,
		historyPath: historyPath,
		lists: map[View]*listPos{
			ViewPackages: {},
			ViewHistory:  {},
		},
		styles: DefaultStyles(),
		keys:   DefaultKeyMap(),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// State returns the displayed state, nil until a refresh succeeds.
func (m *Model) State() *state.State {
	return m.current
}

// Publish shows st. The cursor stays on the same package if st still
// lists it, otherwise it returns to the top.
func (m *Model) Publish(st *state.State) {
	keep := ""
	if e := m.SelectedEntry(); e != nil {
		keep = e.Package.Name
	}

	m.current = st
	m.filter = st.Filter

	pos := m.lists[ViewPackages]
	pos.cursor = 0
	for i, e := range st.Entries {
		if e.Package.Name == keep {
			pos.cursor = i
			break
		}
	}
	pos.follow(m.VisibleHeight())

	if m.selected != nil {
		if e, ok := st.Find(m.selected.Package.Name); ok {
			m.selected = &e
		}
	}
}

// SetHistory replaces the history list, resetting its cursor when the
// list shrank below it.
func (m *Model) SetHistory(entries []history.Entry) {
	m.historyEntries = entries
	if pos := m.lists[ViewHistory]; pos.cursor >= len(entries) {
		pos.reset()
	}
}

func (m *Model) Entries() []reconcile.Entry {
	if m.current == nil {
		return nil
	}
	return m.current.Entries
}

func (m *Model) CurrentTab() Tab {
	if m.activeTab < 0 || m.activeTab >= len(m.tabs) {
		return m.tabs[0]
	}
	return m.tabs[m.activeTab]
}

// list returns the position of v, or of the active view.
func (m *Model) list(v View) *listPos {
	if pos, ok := m.lists[v]; ok {
		return pos
	}
	return &listPos{}
}

// Cursor is the cursor row of the active view.
func (m *Model) Cursor() int { return m.list(m.activeView).cursor }

// Scroll is the first visible row of the active view.
func (m *Model) Scroll() int { return m.list(m.activeView).offset }

// VisibleHeight is the number of list rows that fit between the header,
// tab bar, title and footer.
func (m *Model) VisibleHeight() int {
	return max(1, m.height-7)
}

func (m *Model) rows() int {
	switch m.activeView {
	case ViewPackages:
		return len(m.Entries())
	case ViewHistory:
		return len(m.historyEntries)
	}
	return 0
}

// SelectedEntry is the entry under the package cursor, or the one shown in
// the details view.
func (m *Model) SelectedEntry() *reconcile.Entry {
	if m.activeView == ViewDetails {
		return m.selected
	}
	entries := m.Entries()
	if c := m.lists[ViewPackages].cursor; c < len(entries) {
		e := entries[c]
		return &e
	}
	return nil
}

func (m *Model) MoveCursor(delta int) {
	m.list(m.activeView).moveTo(m.Cursor()+delta, m.rows(), m.VisibleHeight())
}

func (m *Model) GoToTop() {
	m.list(m.activeView).reset()
}

func (m *Model) GoToBottom() {
	m.list(m.activeView).moveTo(m.rows()-1, m.rows(), m.VisibleHeight())
}

func (m *Model) SetTab(index int) {
	if index < 0 || index >= len(m.tabs) {
		return
	}
	m.activeTab = index
	m.activeView = m.tabs[index].View
}

func (m *Model) NextTab() { m.SetTab((m.activeTab + 1) % len(m.tabs)) }

func (m *Model) PrevTab() { m.SetTab((m.activeTab + len(m.tabs) - 1) % len(m.tabs)) }

// ShowDetails opens the details view for the entry under the cursor.
func (m *Model) ShowDetails() {
	if m.activeView != ViewPackages {
		return
	}
	if e := m.SelectedEntry(); e != nil {
		m.selected = e
		m.open(ViewDetails)
	}
}

// ToggleHelp opens the help screen or closes it again.
func (m *Model) ToggleHelp() {
	if m.activeView == ViewHelp {
		m.GoBack()
		return
	}
	m.open(ViewHelp)
}

func (m *Model) open(v View) {
	if m.activeView != ViewDetails && m.activeView != ViewHelp {
		m.prevView = m.activeView
	}
	m.activeView = v
}

// GoBack leaves the details or help view.
func (m *Model) GoBack() {
	if m.activeView == ViewDetails || m.activeView == ViewHelp {
		m.activeView = m.prevView
	}
}

func (m *Model) SetLoading(loading bool, msg string) {
	m.loading = loading
	m.loadingMsg = msg
}

func (m *Model) SetError(msg string) {
	m.errorMsg, m.successMsg = msg, ""
}

func (m *Model) SetSuccess(msg string) {
	m.successMsg, m.errorMsg = msg, ""
}

func (m *Model) ClearMessages() {
	m.errorMsg, m.successMsg = "", ""
}

// StartInput switches the keyboard to the search prompt.
func (m *Model) StartInput(prompt string) {
	m.inputMode = true
	m.inputPrompt = prompt
	m.inputValue = ""
}

// StopInput leaves the search prompt and returns what was typed.
func (m *Model) StopInput() string {
	value := m.inputValue
	m.inputMode, m.inputPrompt, m.inputValue = false, "", ""
	return value
}

// ShowConfirm asks title; action runs and its command is returned when the
// user accepts.
func (m *Model) ShowConfirm(title string, action func() tea.Cmd) {
	m.showConfirm = true
	m.confirmTitle = title
	m.confirmAction = action
}

func (m *Model) ConfirmYes() tea.Cmd {
	action := m.confirmAction
	m.ConfirmNo()
	if action == nil {
		return nil
	}
	return action()
}

func (m *Model) ConfirmNo() {
	m.showConfirm = false
	m.confirmTitle = ""
	m.confirmAction = nil
}
