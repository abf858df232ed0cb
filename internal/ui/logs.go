package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/subdeck/internal/logtail"
)

const logTailLines = 500

// readLogsCmd tails the subdeck log file.
func (m Model) readLogsCmd() tea.Cmd {
	path := ""
	if m.config != nil {
		path = m.config.LogPath()
	}
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) resizeLogs() {
	m.logViewport.Width = max(1, m.width-4)
	m.logViewport.Height = max(1, m.height-6)
}

// refreshLogs rebuilds the viewport content, keeping the view pinned to the
// bottom when it already was.
func (m *Model) refreshLogs() {
	follow := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.formatLogLines())
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) formatLogLines() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render("log unavailable: " + m.logErr.Error())
	}
	if len(m.logLines) == 0 {
		return styles.FaintText.Render("no log output yet")
	}

	out := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		entry := logtail.Parse(line)
		if !entry.Structured() {
			out = append(out, styles.Text.Render(entry.Raw))
			continue
		}
		var b strings.Builder
		if !entry.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(entry.Time.Local().Format("15:04:05")))
			b.WriteString(" ")
		}
		b.WriteString(styles.LevelStyle(entry.Level).Render(logtail.LevelTag(entry.Level)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(entry.Message))
		if len(entry.Fields) > 0 {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(strings.Join(entry.Fields, " ")))
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// renderLogs renders the log overlay in place of the list.
func (m Model) renderLogs(height int) string {
	styles := m.theme.Styles()
	vp := m.logViewport
	vp.Width = max(1, m.width-4)
	vp.Height = max(1, height-3)

	title := styles.AccentText.Bold(true).Render("Logs")
	if m.config != nil {
		title += " " + styles.FaintText.Render(truncateMiddle(m.config.LogPath(), max(10, m.width-12)))
	}
	return styles.Panel.Width(max(10, m.width-2)).Height(max(1, height-2)).Render(title + "\n" + vp.View())
}
