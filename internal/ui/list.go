package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/catalog"
)

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// listRows is how many item rows fit inside the list box.
func (m Model) listRows() int {
	return max(m.contentHeight()-2, 1)
}

// renderCatalog renders the item list beside the selected item's details.
func (m Model) renderCatalog() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if len(m.snapshot.Items) == 0 {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.emptyMessage(styles))
	}

	// Wide terminals give the detail pane more room.
	var listWidth int
	if m.width >= 160 {
		listWidth = m.width * 35 / 100
	} else {
		listWidth = m.width * 45 / 100
	}
	detailWidth := m.width - listWidth

	listPane := m.renderTitledBox(m.listTitle(), m.renderItemList(listWidth-2), listWidth, height, true)

	var detail string
	if it, ok := m.snapshot.Selected(); ok {
		detail = m.renderDetail(it, detailWidth-4)
	} else {
		detail = styles.MutedText.Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render("Press space to select an item")
	}
	detailPane := m.renderTitledBox("Details", detail, detailWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) emptyMessage(styles Styles) string {
	switch m.snapshot.Phase {
	case catalog.PhaseLoading, catalog.PhaseIdle:
		return styles.WarningText.Render(m.spinner.View() + " Loading catalog...")
	case catalog.PhaseFailed:
		return styles.DangerText.Render(catalog.UserMessage(m.snapshot.LastError)) + "\n\n" +
			styles.MutedText.Render("Press r to retry")
	default:
		return styles.MutedText.Render("The catalog is empty. Press a to add an item.")
	}
}

func (m Model) listTitle() string {
	title := fmt.Sprintf("Catalog (%d)", len(m.snapshot.Items))
	if m.snapshot.Busy() {
		title += " " + m.spinner.View()
	}
	return title
}

// renderItemList renders the visible window of rows around the cursor.
func (m Model) renderItemList(width int) string {
	items := m.snapshot.Items
	rows := m.listRows()
	offset := 0
	if m.cursor >= rows {
		offset = m.cursor - rows + 1
	}
	end := min(offset+rows, len(items))

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		bgColor := m.theme.FocusBg
		if i == m.cursor {
			bgColor = m.theme.SelectionBg
		}
		content := m.formatRow(items[i], width, bgColor, i == m.cursor)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatRow formats one item as "● #ID Title · $Price". The dot marks the
// session selection; the cursor row is drawn on the selection background.
func (m Model) formatRow(it catalog.Item, width int, bgColor string, atCursor bool) string {
	bg := NewBgStyle(bgColor)

	marker := " "
	if m.snapshot.HasSelection && m.snapshot.SelectedID == it.ID {
		marker = "●"
	}
	idStr := fmt.Sprintf("#%d", it.ID)
	price := formatPrice(it)
	titleWidth := max(width-len(idStr)-len(price)-6, 8)

	var markerStyle, idStyle, titleStyle, sepStyle, priceStyle lipgloss.Style
	if atCursor {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		markerStyle, idStyle, titleStyle, sepStyle, priceStyle = selText, selText, selText.Bold(true), selText, selText
	} else {
		styles := m.theme.Styles()
		markerStyle = styles.AccentText
		idStyle = styles.MutedText
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		priceStyle = styles.SuccessText
	}

	return bg.Render(marker, markerStyle) + bg.Space() +
		bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(truncate(it.Title, titleWidth), titleStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(price, priceStyle)
}

// renderDetail renders every field of the selected item.
func (m Model) renderDetail(it catalog.Item, width int) string {
	bgColor := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	row := func(label, value string, style lipgloss.Style) string {
		return bg.Render(padRight(label, 10), styles.MutedText) + bg.Render(truncate(value, width-10), style)
	}

	lines := []string{
		bg.Render(truncate(it.Title, width), styles.Text.Bold(true)),
		"",
		row("ID", fmt.Sprintf("#%d", it.ID), styles.AccentText),
		row("Price", formatPrice(it), styles.SuccessText),
		row("Rating", formatRating(it), styles.WarningText),
	}
	if it.Category != "" {
		lines = append(lines, row("Category", titleCase(it.Category), styles.Text))
	}
	if it.Image != "" {
		lines = append(lines, row("Image", truncateMiddle(it.Image, width-10), styles.InfoText))
	}
	if desc := strings.TrimSpace(it.Description); desc != "" {
		wrapped := lipgloss.NewStyle().
			Width(width).
			Foreground(lipgloss.Color(m.theme.Text)).
			Background(lipgloss.Color(bgColor)).
			Render(desc)
		lines = append(lines, "", wrapped)
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use the focus colors.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")

	body := make([]string, 0, height-2)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		body = append(body, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}
