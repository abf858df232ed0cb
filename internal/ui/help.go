package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the full key reference as a modal.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	h := m.help
	h.ShowAll = true
	h.Styles.FullKey = styles.AccentText
	h.Styles.FullDesc = styles.MutedText
	h.Styles.FullSeparator = styles.FaintText

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Logo.Render("subdeck")+" "+styles.MutedText.Render("keys"),
		"",
		h.View(m.keys),
		"",
		styles.FaintText.Render("? or esc to close"),
	)
	return m.placeDimmed(styles.Modal.Render(content))
}
