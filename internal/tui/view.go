package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskmgr/internal/controller"
)

const (
	headerText  = "Task Manager"
	loadingText = "Loading..."
)

// View implements tea.Model.
func (m Model) View() string {
	st := m.ctl.State()
	if st.Err != nil {
		return m.renderAlert(st.Err)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(headerText))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.desc.View())
	b.WriteString("\n\n")

	busy := m.busy()
	button := buttonStyle
	if busy {
		button = buttonBusyStyle
	}
	b.WriteString(button.Render(st.SubmitLabel()))
	b.WriteString("\n\n")

	if busy {
		b.WriteString(m.spinner.View() + " " + loadingText)
		b.WriteString("\n\n")
	}

	if st.Empty() {
		b.WriteString(mutedStyle.Render(controller.EmptyMessage))
		b.WriteString("\n")
	} else {
		for i, card := range st.Cards() {
			b.WriteString(m.renderCard(card, m.focus == focusList && i == m.cursor, busy))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderCard(card controller.Card, selected, busy bool) string {
	style := cardStyle
	switch {
	case card.Editing:
		style = cardEditingStyle
	case selected:
		style = cardSelectedStyle
	}

	lines := []string{labelStyle.Render(fmt.Sprintf("#%d %s", card.ID, card.Heading))}
	if body := strings.TrimRight(card.Body, "\r\n"); strings.TrimSpace(body) != "" {
		lines = append(lines, body)
	}
	if card.ActionsLive && !busy {
		lines = append(lines, mutedStyle.Render("[e] Edit  [d] Delete"))
	}
	if m.width > 0 {
		style = style.Width(max(m.width-4, 20))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAlert(err error) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		alertTitleStyle.Render("Error"),
		"",
		err.Error(),
		"",
		mutedStyle.Render("enter: dismiss"),
	)
	return alertStyle.Render(body)
}

func (m Model) helpLine() string {
	switch m.focus {
	case focusList:
		return "↑/↓: select • e: edit • d: delete • r: refresh • tab: form • q: quit"
	case focusDescription:
		return "ctrl+s: save • tab: next • ctrl+c: quit"
	default:
		return "enter/ctrl+s: save • tab: next • ctrl+c: quit"
	}
}
