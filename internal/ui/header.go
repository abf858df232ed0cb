package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/subdeck/internal/controller"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader(render controller.Render) string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.props.Subscribers

	if !m.mounted || (snap.LastUpdated.IsZero() && !render.HasData) {
		return m.renderConnectingHeader(styles, bg)
	}

	compact := m.width < 100
	var parts []string

	parts = append(parts, bg.Render("subdeck", styles.Logo))

	if snap.IsOffline() {
		parts = append(parts, bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	label := "Subscribers:"
	if compact {
		label = "Subs:"
	}
	count := fmt.Sprintf("%d", snap.Len())
	if render.Search != "" {
		count = fmt.Sprintf("%d/%d", len(render.Visible(snap)), snap.Len())
	}
	parts = append(parts, bg.Pair(label, count, styles.MutedText, styles.Text))

	if render.ShowSpinner {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+bg.Render("Loading", styles.MutedText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		errText := truncate(snap.LastError.Error(), maxErr)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText),
		)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderConnectingHeader shows the connecting/error state before the first
// successful load.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)
	snap := m.props.Subscribers

	if snap.LastError != nil {
		parts := []string{
			bg.Render("subdeck", styles.Logo),
			bg.Render("BACKEND "+classifyConnectionError(snap.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		}
		if m.config != nil {
			if logPath := m.config.LogPath(); logPath != "" {
				parts = append(parts,
					bg.Pair("logs", truncateMiddle(logPath, 50), styles.FaintText, styles.MutedText))
			}
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	target := "backend"
	if m.config != nil && m.config.APIBind != "" {
		target = m.config.APIBind
	}
	return styles.Header.Width(m.width).Render(
		bg.Render("subdeck", styles.Logo) + sep +
			bg.Render("Connecting to "+target+"...", styles.WarningText.Bold(true)),
	)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := m.now().Sub(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "status 403"):
		return "UNAUTHORIZED"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar for the active layer.
func (m Model) renderCommandBar(render controller.Render) string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.searching:
		commands = []cmd{
			{"enter", "Apply"},
			{"esc", "Clear"},
		}
	case m.showLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"L", "Close logs"},
			{"?", "More"},
		}
	case render.View.Visible:
		commands = []cmd{
			{"e", "Edit"},
			{"d", "Delete"},
			{"esc", "Close"},
			{"?", "More"},
		}
	case render.ShowPlaceholder:
		commands = []cmd{
			{"n", "Add subscriber"},
			{"r", "Refresh"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "View"},
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"/", "Search"},
			{"r", "Refresh"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if render.Search != "" && !m.searching {
		segments = append(segments,
			bg.Render("/"+truncate(render.Search, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	// Keep more of the end (file name) than the start
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
