package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/subdeck/internal/notify"
)

// renderToasts stacks active notifications, newest last, right-aligned above
// the command bar.
func (m Model) renderToasts() string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	width := min(60, max(20, m.width-4))

	boxes := make([]string, 0, len(active))
	for _, n := range active {
		titleStyle := styles.SuccessText
		if n.Level == notify.LevelError {
			titleStyle = styles.DangerText
		}
		body := titleStyle.Render(n.Title)
		if n.Message != "" {
			body += "\n" + styles.Text.Render(truncate(n.Message, width*2))
		}
		if n.Action != nil {
			body += "\n" + styles.FaintText.Render("D "+n.Action.Label)
		}
		boxes = append(boxes, styles.ToastStyle(n.Level).Width(width).Render(body))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
}
