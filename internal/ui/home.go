package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHome renders the landing screen shown before the first fetch.
func (m Model) renderHome() string {
	styles := m.theme.Styles()

	button := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Accent)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Bold(true).
		Padding(0, 3).
		Render("See products")

	hints := make([]string, 0, 3)
	hints = append(hints, styles.AccentText.Render("enter")+styles.MutedText.Render(" load catalog"))
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, styles.AccentText.Render(b.Help().Key)+styles.MutedText.Render(" "+strings.ToLower(b.Help().Desc)))
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.Logo.Render("kiosk"),
		"",
		styles.Text.Render("Browse and edit the product catalog at"),
		styles.InfoText.Render(truncateMiddle(m.apiURL, max(m.width-10, 20))),
		"",
		button,
		"",
		strings.Join(hints, styles.FaintText.Render("  ·  ")),
	)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, body)
}
