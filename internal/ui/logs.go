package ui

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/logtail"
)

// logReadLimit caps how many lines of the session log are loaded.
const logReadLimit = 1000

// logState holds all log pane state.
type logState struct {
	rawLines []string
	entries  []logtail.Entry
	follow   bool
	verbose  bool
	readErr  error

	// Search
	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int // entry indices that match
	searchMatchIdx int
}

type logLinesMsg struct {
	lines []string
	err   error
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logReadLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) initLogState() {
	ti := textinput.New()
	ti.Placeholder = "Search log..."
	ti.CharLimit = 100
	m.logState = logState{follow: true, searchInput: ti}
	m.logViewport = viewport.New(0, 0)
}

func (m Model) minLogLevel() slog.Level {
	if m.logState.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.readErr = msg.err
	if msg.err == nil {
		m.logState.rawLines = msg.lines
	}
	m.applyLogFilter()
}

// applyLogFilter rebuilds the visible entries from the raw lines.
func (m *Model) applyLogFilter() {
	m.logState.entries = logtail.Filter(m.logState.rawLines, m.minLogLevel())
	m.findSearchMatches()
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	m.logViewport.Width = max(m.width-2, 0)
	m.logViewport.Height = max(m.contentHeight()-3, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view: a box around the viewport plus a status line.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	title := "Session Log"
	if m.logState.verbose {
		title += " (debug)"
	}
	box := m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight()-1, true)
	return box + "\n" + m.renderLogStatus(styles.WithBackground(m.theme.Surface), bg)
}

func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	var content string
	switch {
	case m.logState.searchActive:
		content = bg.Render("/", styles.AccentText) + m.logState.searchInput.View()
	case m.logState.readErr != nil:
		content = bg.Render(m.logState.readErr.Error(), styles.DangerText)
	case m.logState.searchRegex != nil && len(m.logState.searchMatches) > 0:
		content = bg.Render("/"+m.logState.searchQuery, styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", m.logState.searchMatchIdx+1, len(m.logState.searchMatches)), styles.WarningText)
	case m.logState.searchRegex != nil:
		content = bg.Render("/"+m.logState.searchQuery, styles.AccentText) +
			bg.Render(" - no matches", styles.MutedText)
	default:
		content = bg.Render(truncateMiddle(m.logFile, max(m.width-30, 20)), styles.MutedText) +
			bg.Spaces(2) +
			bg.Render(fmt.Sprintf("%d entries", len(m.logState.entries)), styles.FaintText)
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Width(m.width).Render(content)
}

// renderLogContent renders the colorized log entries.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if len(m.logState.entries) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	active := -1
	if len(m.logState.searchMatches) > 0 {
		active = m.logState.searchMatches[m.logState.searchMatchIdx]
	}
	matched := make(map[int]bool, len(m.logState.searchMatches))
	for _, idx := range m.logState.searchMatches {
		matched[idx] = true
	}

	lines := make([]string, 0, len(m.logState.entries))
	for i, e := range m.logState.entries {
		var line string
		switch {
		case i == active:
			line = lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Warning)).
				Foreground(lipgloss.Color(m.theme.Background)).
				Render(e.Raw)
		case matched[i]:
			line = bg.Render(e.Raw, styles.AccentText)
		default:
			line = m.colorizeEntry(e, styles, bg)
		}
		lines = append(lines, bg.FillLine(line, width))
	}
	return strings.Join(lines, "\n")
}

// colorizeEntry renders "15:04:05 LEVEL message key=value".
func (m *Model) colorizeEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if !e.Parsed {
		return bg.Render(e.Raw, styles.Text)
	}
	stamp := e.Time
	if ts, err := time.Parse(time.RFC3339, e.Time); err == nil {
		stamp = ts.Local().Format("15:04:05")
	}
	out := bg.Render(stamp, styles.FaintText) + bg.Space() +
		bg.Render(padRight(e.Level.String(), 5), m.levelStyle(e.Level, styles).Bold(true)) + bg.Space() +
		bg.Render(e.Message, styles.Text)
	if e.Attrs != "" {
		out += bg.Space() + bg.Render(e.Attrs, styles.MutedText)
	}
	return out
}

func (m *Model) levelStyle(level slog.Level, styles Styles) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styles.DangerText
	case level >= slog.LevelWarn:
		return styles.WarningText
	case level >= slog.LevelInfo:
		return styles.SuccessText
	default:
		return styles.InfoText
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, readLogsCmd(m.logFile)
		}
	case key.Matches(msg, m.keys.ToggleVerbose):
		m.logState.verbose = !m.logState.verbose
		m.applyLogFilter()
	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		cmd := m.logState.searchInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.NextMatch):
		m.stepSearchMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.stepSearchMatch(-1)
	case key.Matches(msg, m.keys.Escape):
		if m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
			return m, nil
		}
		m.currentView = m.contentView()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}
	return m, nil
}

// handleLogSearchInput handles keyboard input while typing a search.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logState.searchInput.Value()
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		if query == "" {
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			m.logState.searchActive = true
			m.logState.searchInput.Focus()
			return m, nil
		}
		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.findSearchMatches()
		m.scrollToSearchMatch()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
}

func (m *Model) findSearchMatches() {
	m.logState.searchMatches = nil
	if m.logState.searchRegex == nil {
		m.logState.searchMatchIdx = 0
		return
	}
	for i, e := range m.logState.entries {
		if m.logState.searchRegex.MatchString(e.Raw) {
			m.logState.searchMatches = append(m.logState.searchMatches, i)
		}
	}
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		m.logState.searchMatchIdx = 0
	}
}

func (m *Model) stepSearchMatch(delta int) {
	n := len(m.logState.searchMatches)
	if n == 0 {
		return
	}
	m.logState.searchMatchIdx = (m.logState.searchMatchIdx + delta + n) % n
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

// scrollToSearchMatch centers the active match and stops following.
func (m *Model) scrollToSearchMatch() {
	if len(m.logState.searchMatches) == 0 {
		return
	}
	target := m.logState.searchMatches[m.logState.searchMatchIdx]
	m.logState.follow = false
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.SetYOffset(max(target-m.logViewport.Height/2, 0))
}
