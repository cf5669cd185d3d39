package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/catalog"
)

// renderHeader renders the status bar: phase, activity and the last error.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100
	sep := bg.Spaces(2)

	phase := m.snapshot.Phase.String()
	parts := []string{
		bg.Render("kiosk", styles.Logo),
		styles.PhaseStyle(phase).Render(strings.ToUpper(phase)),
	}

	if m.snapshot.Phase != catalog.PhaseIdle {
		parts = append(parts, bg.Render(fmt.Sprintf("%d items", len(m.snapshot.Items)), styles.Text))
	}
	if m.snapshot.Busy() {
		parts = append(parts,
			bg.Render(m.spinner.View(), styles.WarningText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d in flight", m.snapshot.InFlight), styles.WarningText))
	}
	if it, ok := m.snapshot.Selected(); ok && !compact {
		parts = append(parts, bg.Render("selected", styles.FaintText)+bg.Space()+
			bg.Render(fmt.Sprintf("#%d", it.ID), styles.AccentText))
	}
	if !m.snapshot.LastUpdated.IsZero() && !compact {
		parts = append(parts, bg.Render("updated", styles.FaintText)+bg.Space()+
			bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	switch {
	case m.flash != "" && m.flashIsErr:
		parts = append(parts, bg.Render(truncate(m.flash, 60), styles.DangerText))
	case m.snapshot.LastError != nil:
		kind := catalog.KindOf(m.snapshot.LastError)
		parts = append(parts, bg.Render(kind.String(), styles.FaintText)+bg.Space()+
			bg.Render(truncate(catalog.UserMessage(m.snapshot.LastError), 60), styles.DangerText))
	case m.flash != "":
		parts = append(parts, bg.Render(truncate(m.flash, 60), styles.SuccessText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewHome:
		commands = []cmd{
			{"enter", "See products"},
			{"L", "Log"},
			{"?", "More"},
		}
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		verboseLabel := "Debug"
		if m.logState.verbose {
			verboseLabel = "Info+"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"v", verboseLabel},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"L", "Back"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"space", "Select"},
			{"a", "Add"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"r", "Reload"},
			{"H", "Home"},
			{"L", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewLogs && m.logState.searchQuery != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logState.searchQuery, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}
