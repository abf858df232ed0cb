package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/subdeck/internal/controller"
	"github.com/five82/subdeck/internal/notify"
	"github.com/five82/subdeck/internal/subscriber"
)

const (
	fieldIMSI = iota
	fieldMSISDN
	fieldK
	fieldOPc
	fieldAMF
	fieldCount
)

var fieldLabels = [fieldCount]string{"IMSI", "MSISDN", "K", "OPc", "AMF"}

// defaultAMBR is used for new subscribers: 1 Gbps both ways.
var defaultAMBR = subscriber.AMBR{
	Downlink: subscriber.Bitrate{Value: 1, Unit: 3},
	Uplink:   subscriber.Bitrate{Value: 1, Unit: 3},
}

// documentForm holds the inputs of the create/edit panel. Which subscriber
// it edits and whether it is visible live in controller.DocumentMode.
type documentForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	base   subscriber.Subscriber
	saving bool
}

func newDocumentForm() documentForm {
	var f documentForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 40
		f.inputs[i] = in
	}
	f.inputs[fieldIMSI].Placeholder = "001010000000001"
	f.inputs[fieldMSISDN].Placeholder = "comma separated"
	f.inputs[fieldK].CharLimit = 32
	f.inputs[fieldOPc].CharLimit = 32
	f.inputs[fieldAMF].CharLimit = 4
	f.inputs[fieldAMF].Placeholder = "8000"
	return f
}

// reset fills the form for action. For updates base is the cached record.
func (f *documentForm) reset(action controller.DocumentAction, base subscriber.Subscriber) {
	if action == controller.ActionCreate {
		base = subscriber.Subscriber{AMBR: defaultAMBR, Security: subscriber.Security{AMF: "8000"}}
	}
	f.base = base
	f.saving = false
	f.inputs[fieldIMSI].SetValue(base.IMSI)
	f.inputs[fieldMSISDN].SetValue(strings.Join(base.MSISDN, ", "))
	f.inputs[fieldK].SetValue(base.Security.K)
	f.inputs[fieldOPc].SetValue(base.Security.OPc)
	f.inputs[fieldAMF].SetValue(base.Security.AMF)

	f.focus = fieldIMSI
	if action == controller.ActionUpdate {
		f.focus = fieldMSISDN
	}
	f.applyFocus()
}

func (f *documentForm) applyFocus() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// move shifts focus by delta, skipping the IMSI field when it is locked.
func (f *documentForm) move(delta int, action controller.DocumentAction) {
	first := fieldIMSI
	if action == controller.ActionUpdate {
		first = fieldMSISDN
	}
	span := fieldCount - first
	f.focus = first + ((f.focus-first+delta)%span+span)%span
	f.applyFocus()
}

// value builds the subscriber document from the inputs.
func (f documentForm) value(action controller.DocumentAction, imsi string) subscriber.Subscriber {
	sub := f.base
	sub.IMSI = strings.TrimSpace(f.inputs[fieldIMSI].Value())
	if action == controller.ActionUpdate {
		sub.IMSI = imsi
	}
	sub.MSISDN = splitList(f.inputs[fieldMSISDN].Value())
	sub.Security.K = strings.TrimSpace(f.inputs[fieldK].Value())
	sub.Security.OPc = strings.TrimSpace(f.inputs[fieldOPc].Value())
	sub.Security.AMF = strings.TrimSpace(f.inputs[fieldAMF].Value())
	return sub
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func operationFor(action controller.DocumentAction) subscriber.Operation {
	if action == controller.ActionUpdate {
		return subscriber.OpUpdate
	}
	return subscriber.OpCreate
}

// openDocument shows the document panel for action.
func (m *Model) openDocument(action controller.DocumentAction, imsi string) tea.Cmd {
	var base subscriber.Subscriber
	if action == controller.ActionUpdate {
		sub, ok := m.props.Subscribers.Get(imsi)
		if !ok {
			return nil
		}
		base = sub
	}
	m.ctrl = m.ctrl.ShowDocument(action, imsi)
	m.form.reset(action, base)
	return textinput.Blink
}

// handleDocumentKey processes keyboard input while the document panel is open.
func (m Model) handleDocumentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc := m.ctrl.Document
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.ctrl = m.ctrl.HideDocument()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m.saveDocument()
	case key.Matches(msg, m.keys.FormDelete):
		if doc.Action == controller.ActionUpdate {
			m.ctrl = m.ctrl.ShowConfirm(doc.IMSI)
			m.confirmFocus = 0
		}
		return m, nil
	case msg.String() == "enter":
		if m.form.focus == fieldCount-1 {
			return m.saveDocument()
		}
		m.form.move(1, doc.Action)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.form.move(1, doc.Action)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form.move(-1, doc.Action)
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) saveDocument() (tea.Model, tea.Cmd) {
	if m.form.saving {
		return m, nil
	}
	doc := m.ctrl.Document
	m.form.saving = true
	return m, m.saveCmd(operationFor(doc.Action), m.form.value(doc.Action, doc.IMSI))
}

// observeSaves turns terminal create/update statuses into notifications and
// closes the panel on success.
func (m *Model) observeSaves(saves map[subscriber.Operation]subscriber.ActionStatus) {
	for _, op := range []subscriber.Operation{subscriber.OpCreate, subscriber.OpUpdate} {
		status, ok := saves[op]
		if !ok || !status.Terminal() || status.Seq <= m.saveSeen {
			continue
		}
		m.saveSeen = status.Seq
		m.form.saving = false

		if status.Response != nil {
			m.toasts.Push(notify.Success("Subscriber", status.ID+" has been saved"), m.now())
			if m.ctrl.Document.Visible {
				m.ctrl = m.ctrl.HideDocument()
			}
		} else {
			msg := controller.ExtractError(status.Error)
			m.toasts.Push(notify.Error(msg.Title, msg.Message, 0, "Dismiss"), m.now())
		}
		if m.svc != nil {
			m.svc.Clear(op)
		}
	}
}

// renderDocument renders the create/edit panel.
func (m Model) renderDocument() string {
	styles := m.theme.Styles()
	doc := m.ctrl.Document

	title := "New subscriber"
	if doc.Action == controller.ActionUpdate {
		title = "Edit " + doc.IMSI
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	labelStyle := styles.MutedText.Width(8)
	for i, in := range m.form.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.form.focus {
			label = styles.AccentText.Width(8).Bold(true).Render(fieldLabels[i])
		}
		value := in.View()
		if i == fieldIMSI && doc.Action == controller.ActionUpdate {
			value = styles.FaintText.Render(doc.IMSI)
		}
		b.WriteString(label + " " + value + "\n")
	}

	ambr := m.form.base.AMBR
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("AMBR ↓ " + ambr.Downlink.String() + "  ↑ " + ambr.Uplink.String()))
	b.WriteString("\n\n")

	hint := "ctrl+s save · tab next · esc close"
	if doc.Action == controller.ActionUpdate {
		hint += " · ctrl+d delete"
	}
	if m.form.saving {
		hint = m.spinner.View() + " saving..."
	}
	b.WriteString(styles.MutedText.Render(hint))

	return styles.Modal.Width(min(64, max(40, m.width-4))).Render(b.String())
}

// placeDimmed centers content over a dimmed backdrop.
func (m Model) placeDimmed(content string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.BorderMuted)),
	)
}
