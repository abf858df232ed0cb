package ui

import (
	"strings"

	"github.com/five82/subdeck/internal/subscriber"
)

// renderDetail renders the read-only panel for sub.
func (m Model) renderDetail(sub subscriber.Subscriber, width, height int) string {
	styles := m.theme.Styles()
	labelStyle := styles.MutedText.Width(10)
	valueWidth := max(4, width-16)

	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return labelStyle.Render(label) + " " + styles.Text.Render(truncate(value, valueWidth))
	}

	lines := []string{
		styles.AccentText.Bold(true).Render(sub.IMSI),
		"",
		row("MSISDN", strings.Join(sub.MSISDN, ", ")),
		"",
		styles.FaintText.Render("Security"),
		row("K", sub.Security.K),
		row("OPc", sub.Security.OPc),
		row("AMF", sub.Security.AMF),
		"",
		styles.FaintText.Render("AMBR"),
		row("Downlink", sub.AMBR.Downlink.String()),
		row("Uplink", sub.AMBR.Uplink.String()),
		"",
		styles.MutedText.Render("e edit · d delete · esc close"),
	}

	return styles.Panel.
		BorderForeground(styles.AccentText.GetForeground()).
		Width(max(10, width-2)).
		Height(max(1, height-2)).
		Render(strings.Join(lines, "\n"))
}
