package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/subdeck/internal/controller"
	"github.com/five82/subdeck/internal/subscriber"
)

// renderBody renders the main area: spinner, placeholder or the list with an
// optional detail panel beside it.
func (m Model) renderBody(render controller.Render, height int) string {
	styles := m.theme.Styles()

	if render.ShowSpinner && !render.HasData {
		content := m.spinner.View() + " " + styles.MutedText.Render("Loading subscribers...")
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
	}

	if render.ShowPlaceholder {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.renderPlaceholder())
	}

	listWidth := m.width
	var detail string
	if render.View.Visible && render.View.Subscriber != nil {
		detailWidth := min(56, m.width/2)
		listWidth = m.width - detailWidth
		detail = m.renderDetail(*render.View.Subscriber, detailWidth, height)
	}

	list := m.renderList(render, listWidth, height)
	if detail == "" {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// renderPlaceholder renders the empty collection card. Pressing n acts on its
// title.
func (m Model) renderPlaceholder() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("+ " + controller.BlankTitle)
	body := styles.MutedText.Render(controller.BlankBody)
	hint := styles.FaintText.Render("press n to add one")
	return styles.Panel.Padding(1, 4).Render(
		lipgloss.JoinVertical(lipgloss.Center, title, "", body, "", hint),
	)
}

// renderList renders the search bar and the subscriber rows.
func (m Model) renderList(render controller.Render, width, height int) string {
	styles := m.theme.Styles()
	panel := styles.Panel.Width(max(10, width-2))
	innerWidth := max(8, width-4)
	innerHeight := max(1, height-2)

	var lines []string
	if render.ShowSearch {
		lines = append(lines, m.renderSearchBar(render, innerWidth))
		innerHeight--
	}

	rows := render.Visible(m.props.Subscribers)
	if len(rows) == 0 {
		msg := "No subscribers match " + fmt.Sprintf("%q", render.Search)
		lines = append(lines, styles.MutedText.Render(msg))
		return panel.Height(max(1, height-2)).Render(strings.Join(lines, "\n"))
	}

	lines = append(lines, styles.FaintText.Render(formatRow("IMSI", "MSISDN", "AMBR", innerWidth)))
	innerHeight--

	start, end := visibleWindow(len(rows), m.selected, max(1, innerHeight))
	for i := start; i < end; i++ {
		line := formatSubscriberRow(rows[i], innerWidth)
		if i == m.selected {
			line = styles.Selected.Width(innerWidth).Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}

	return panel.Height(max(1, height-2)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderSearchBar(render controller.Render, width int) string {
	styles := m.theme.Styles()
	if m.searching {
		m.search.Width = max(1, width-2)
		return m.search.View()
	}
	if render.Search == "" {
		return styles.FaintText.Render("/ search")
	}
	return styles.AccentText.Render("/" + truncate(render.Search, width-1))
}

// visibleWindow returns the [start,end) slice of rows that keeps selected on
// screen.
func visibleWindow(total, selected, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

func formatSubscriberRow(sub subscriber.Subscriber, width int) string {
	msisdn := strings.Join(sub.MSISDN, ",")
	if msisdn == "" {
		msisdn = "-"
	}
	ambr := sub.AMBR.Downlink.String() + "/" + sub.AMBR.Uplink.String()
	return formatRow(sub.IMSI, msisdn, ambr, width)
}

func formatRow(imsi, msisdn, ambr string, width int) string {
	const imsiWidth = 17
	ambrWidth := 22
	msisdnWidth := width - imsiWidth - ambrWidth - 2
	if msisdnWidth < 6 {
		return truncate(imsi, width)
	}
	return fmt.Sprintf("%-*s %-*s %s",
		imsiWidth, truncate(imsi, imsiWidth),
		msisdnWidth, truncate(msisdn, msisdnWidth),
		truncate(ambr, ambrWidth))
}
