package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kiosk/internal/catalog"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal closed.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// Messages emitted by modals for the root model to act on.
type (
	formSubmitMsg struct {
		editing  bool
		targetID int
		draft    catalog.Draft
	}
	formCancelMsg      struct{}
	deleteConfirmedMsg struct{ id int }
)

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

const (
	fieldTitle = iota
	fieldPrice
	fieldRating
	fieldImage
	fieldDescription
	fieldCategory
	fieldCount
)

var formFields = [fieldCount]struct {
	label       string
	placeholder string
	limit       int
}{
	{"Title", "Product name", 120},
	{"Price", "0.00", 16},
	{"Rating", "0-5, blank for none", 8},
	{"Image", "https://", 400},
	{"Description", "optional", 1000},
	{"Category", "optional", 60},
}

// formModal edits a catalog.Draft. Submission is handed to the root model;
// the modal stays open until the session closes the form.
type formModal struct {
	editing    bool
	targetID   int
	inputs     [fieldCount]textinput.Model
	focus      int
	err        error
	submitting bool
}

func newFormModal(form catalog.Form) *formModal {
	f := &formModal{editing: form.Editing, targetID: form.TargetID, err: form.Err}
	values := [fieldCount]string{
		form.Draft.Title,
		form.Draft.Price,
		form.Draft.Rating,
		form.Draft.Image,
		form.Draft.Description,
		form.Draft.Category,
	}
	for i, field := range formFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.placeholder
		ti.CharLimit = field.limit
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

func (f *formModal) draft() catalog.Draft {
	return catalog.Draft{
		Title:       f.inputs[fieldTitle].Value(),
		Price:       f.inputs[fieldPrice].Value(),
		Rating:      f.inputs[fieldRating].Value(),
		Image:       f.inputs[fieldImage].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Category:    f.inputs[fieldCategory].Value(),
	}
}

func (f *formModal) setFocus(idx int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (idx + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *formModal) title() string {
	if f.editing {
		return fmt.Sprintf("Edit item #%d", f.targetID)
	}
	return "Add item"
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, emit(formCancelMsg{}), true
	case key.Matches(keyMsg, keys.Confirm):
		if f.submitting {
			return f, nil, false
		}
		f.submitting = true
		return f, emit(formSubmitMsg{editing: f.editing, targetID: f.targetID, draft: f.draft()}), false
	case key.Matches(keyMsg, keys.NextField):
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(keyMsg, keys.PrevField):
		return f, f.setFocus(f.focus - 1), false
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(keyMsg)
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	modalWidth := min(max(width-8, 40), 72)
	labelWidth := 13

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title()))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n\n")

	for i, field := range formFields {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		f.inputs[i].Width = modalWidth - labelWidth - 8
		b.WriteString(labelStyle.Width(labelWidth).Render(field.label))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.submitting:
		b.WriteString(styles.WarningText.Render("Saving..."))
	case f.err != nil:
		b.WriteString(styles.DangerText.Width(modalWidth - 6).Render(catalog.UserMessage(f.err)))
	default:
		b.WriteString(styles.FaintText.Render("enter submit · tab next field · esc cancel"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// confirmModal asks before deleting an item. Any key other than y cancels.
type confirmModal struct {
	id    int
	title string
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	if key.Matches(keyMsg, keys.Yes) {
		return c, emit(deleteConfirmedMsg{id: c.id}), true
	}
	return c, nil, true
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.Text.Bold(true).Render(fmt.Sprintf("Delete #%d?", c.id)) + "\n\n" +
		styles.MutedText.Render(truncate(c.title, 40)) + "\n\n" +
		styles.WarningText.Render("y") + styles.FaintText.Render(" delete · any other key cancels")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
