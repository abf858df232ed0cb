package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/subdeck/internal/controller"
)

// handleConfirmKey drives the delete dialog. Cancel is focused first.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.No):
		m.ctrl = m.ctrl.HideConfirm()
		return m, nil
	case key.Matches(msg, m.keys.Yes):
		return m.confirmDelete()
	case key.Matches(msg, m.keys.Left):
		m.confirmFocus = (m.confirmFocus + len(controller.ConfirmButtons) - 1) % len(controller.ConfirmButtons)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.confirmFocus = (m.confirmFocus + 1) % len(controller.ConfirmButtons)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if controller.ConfirmButtons[m.confirmFocus].Action == controller.ButtonConfirm {
			return m.confirmDelete()
		}
		m.ctrl = m.ctrl.HideConfirm()
		return m, nil
	}
	return m, nil
}

// confirmDelete closes every panel that shows the doomed subscriber and
// issues the delete.
func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	imsi := m.ctrl.Confirm.IMSI
	var cmds []controller.Command
	m.ctrl, cmds = m.ctrl.ConfirmDelete()

	if m.ctrl.Document.Visible && m.ctrl.Document.IMSI == imsi {
		m.ctrl = m.ctrl.HideDocument()
	}
	if v := m.ctrl.View; v.Visible && v.Subscriber != nil && v.Subscriber.IMSI == imsi {
		m.ctrl = m.ctrl.HideView()
	}
	cmd := m.execute(cmds)
	return m, cmd
}

// renderConfirm renders the delete dialog.
func (m Model) renderConfirm() string {
	styles := m.theme.Styles()

	buttons := make([]string, 0, len(controller.ConfirmButtons))
	for i, b := range controller.ConfirmButtons {
		buttons = append(buttons, styles.ButtonStyle(b.Kind, i == m.confirmFocus).Render(b.Text))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.Text.Bold(true).Render(controller.ConfirmMessage),
		styles.MutedText.Render(m.ctrl.Confirm.IMSI),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1]),
		"",
		styles.FaintText.Render("y delete · n/esc cancel"),
	)

	return styles.Modal.BorderForeground(lipgloss.Color(m.theme.Danger)).Render(content)
}
