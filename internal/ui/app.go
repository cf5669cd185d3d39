package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kiosk/internal/catalog"
	"github.com/five82/kiosk/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewHome View = iota
	ViewCatalog
	ViewLogs
)

const defaultPollTick = 500 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   *catalog.Manager
	Logger    *slog.Logger
	APIURL    string
	LogFile   string
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   *catalog.Manager
	logger    *slog.Logger
	keys      keyMap
	apiURL    string
	logFile   string
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal
	spinner     spinner.Model

	// Session state, refreshed from the manager after every change
	snapshot catalog.State
	cursor   int

	// Transient status line message
	flash      string
	flashIsErr bool

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultPollTick
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		catalog:     opts.Catalog,
		logger:      logger,
		keys:        DefaultKeyMap(),
		apiURL:      opts.APIURL,
		logFile:     opts.LogFile,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewHome,
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	m.initLogState()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.pollTick), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opResultMsg:
		m.handleResult(msg)
		return m, nil

	case formSubmitMsg:
		if msg.editing {
			return m, m.updateCmd(msg.targetID, msg.draft)
		}
		return m, m.createCmd(msg.draft)

	case formCancelMsg:
		m.catalog.CancelForm()
		m.refresh()
		return m, nil

	case deleteConfirmedMsg:
		return m, m.removeCmd(msg.id)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		if f, ok := m.modal.(*formModal); ok {
			m.catalog.UpdateDraft(f.draft())
		}
		return m, cmd
	}

	if m.currentView == ViewLogs && m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.currentView = ViewHome
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = m.contentView()
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logFile)
	}

	switch m.currentView {
	case ViewHome:
		return m.handleHomeKey(msg)
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// contentView is where esc or L returns to from the log pane.
func (m Model) contentView() View {
	if m.snapshot.Phase == catalog.PhaseIdle {
		return ViewHome
	}
	return ViewCatalog
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Fetch):
		m.currentView = ViewCatalog
		m.setFlash("Loading catalog...", false)
		return m, m.fetchCmd()
	}
	return m, nil
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Items)
	page := max(m.listRows()/2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(count-1, 0))
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(count-1, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.cursor = min(m.cursor+page, max(count-1, 0))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.cursor = max(m.cursor-page, 0)

	case key.Matches(msg, m.keys.Select):
		if it, ok := m.cursorItem(); ok {
			m.catalog.Select(it.ID)
			m.refresh()
		}

	case key.Matches(msg, m.keys.Fetch):
		m.setFlash("Loading catalog...", false)
		return m, m.fetchCmd()

	case key.Matches(msg, m.keys.Create):
		if err := m.catalog.BeginCreate(); err != nil {
			m.setFlash(catalog.UserMessage(err), true)
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.cursorItem()
		if !ok {
			return m, nil
		}
		if err := m.catalog.BeginEdit(it.ID); err != nil {
			m.setFlash(catalog.UserMessage(err), true)
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.cursorItem()
		if !ok {
			return m, nil
		}
		if m.prefs.SkipDeleteConfirm {
			return m, m.removeCmd(it.ID)
		}
		m.modal = confirmModal{id: it.ID, title: it.Title}
	}
	return m, nil
}

// openForm shows the form the manager just opened.
func (m *Model) openForm() tea.Cmd {
	m.refresh()
	if m.snapshot.Form == nil {
		return nil
	}
	m.modal = newFormModal(*m.snapshot.Form)
	return nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.refresh()
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, readLogsCmd(m.logFile))
	}
	return m, tea.Batch(cmds...)
}

// refresh pulls a fresh snapshot and reconciles view state with it.
func (m *Model) refresh() {
	if m.catalog == nil {
		return
	}
	m.snapshot = m.catalog.Snapshot()
	m.clampCursor()

	f, ok := m.modal.(*formModal)
	if !ok {
		return
	}
	form := m.snapshot.Form
	if form == nil || form.Editing != f.editing || form.TargetID != f.targetID {
		m.modal = nil
		return
	}
	f.err = form.Err
}

func (m *Model) clampCursor() {
	count := len(m.snapshot.Items)
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) cursorItem() (catalog.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Items) {
		return catalog.Item{}, false
	}
	return m.snapshot.Items[m.cursor], true
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashIsErr = isErr
}

// handleResult applies the outcome of a catalog operation to the view.
func (m *Model) handleResult(msg opResultMsg) {
	if f, ok := m.modal.(*formModal); ok && (msg.op == opCreate || msg.op == opUpdate) {
		f.submitting = false
	}
	m.refresh()

	if msg.err != nil {
		m.setFlash(catalog.UserMessage(msg.err), true)
		return
	}
	switch msg.op {
	case opFetch:
		m.setFlash(fmt.Sprintf("Loaded %d items", len(m.snapshot.Items)), false)
	case opCreate:
		m.cursor = 0
		m.setFlash(fmt.Sprintf("Added #%d %s", msg.item.ID, truncate(msg.item.Title, 30)), false)
	case opUpdate:
		m.setFlash(fmt.Sprintf("Updated #%d", msg.item.ID), false)
	case opDelete:
		m.setFlash(fmt.Sprintf("Deleted #%d", msg.id), false)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHome:
		return m.renderHome()
	case ViewCatalog:
		return m.renderCatalog()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type opKind int

const (
	opFetch opKind = iota
	opCreate
	opUpdate
	opDelete
)

type opResultMsg struct {
	op   opKind
	id   int
	item catalog.Item
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchCmd() tea.Cmd {
	mgr, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		return opResultMsg{op: opFetch, err: mgr.FetchAll(ctx)}
	}
}

func (m Model) createCmd(d catalog.Draft) tea.Cmd {
	mgr, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		item, err := mgr.SubmitCreate(ctx, d)
		return opResultMsg{op: opCreate, id: item.ID, item: item, err: err}
	}
}

func (m Model) updateCmd(id int, d catalog.Draft) tea.Cmd {
	mgr, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		item, err := mgr.SubmitUpdate(ctx, id, d)
		return opResultMsg{op: opUpdate, id: id, item: item, err: err}
	}
}

func (m Model) removeCmd(id int) tea.Cmd {
	mgr, ctx := m.catalog, m.ctx
	return func() tea.Msg {
		return opResultMsg{op: opDelete, id: id, err: mgr.Remove(ctx, id)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil && m.ctx.Err() == nil {
		return err
	}
	return nil
}
