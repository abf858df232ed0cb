package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/subdeck/internal/config"
	"github.com/five82/subdeck/internal/controller"
	"github.com/five82/subdeck/internal/crud"
	"github.com/five82/subdeck/internal/logging"
	"github.com/five82/subdeck/internal/notify"
	"github.com/five82/subdeck/internal/prefs"
	"github.com/five82/subdeck/internal/subscriber"
)

const defaultPollTick = 500 * time.Millisecond

// Options configure the UI.
type Options struct {
	Context   context.Context
	Service   *crud.Service
	Config    *config.Config
	PollTick  time.Duration
	ThemeName string
	ShowLogs  bool
	Search    string
	// Prefs receives theme, overlay and search changes. Nil disables
	// persistence.
	Prefs *prefs.File
}

// Model is the main Bubble Tea model.
type Model struct {
	ctx       context.Context
	svc       *crud.Service
	config    *config.Config
	prefs     *prefs.File
	pollTick  time.Duration

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	// Controller state and the props it was last reconciled against
	ctrl        controller.State
	props       controller.Props
	mounted     bool
	lastUpdated time.Time

	// List
	selected  int
	search    textinput.Model
	searching bool
	spinner   spinner.Model

	// Document panel
	form     documentForm
	saveSeen uint64

	// Confirm dialog
	confirmFocus int

	toasts   notify.Queue
	showHelp bool

	// Log overlay
	showLogs    bool
	logViewport viewport.Model
	logLines    []string
	logErr      error

	clock func() time.Time
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	props controller.Props
	saves map[subscriber.Operation]subscriber.ActionStatus
}

type storeChangedMsg struct{}

type logLinesMsg struct {
	lines []string
	err   error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	theme := GetTheme(themeName)

	tick := opts.PollTick
	if tick <= 0 {
		tick = defaultPollTick
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "imsi or msisdn"
	search.CharLimit = 64
	search.SetValue(opts.Search)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	return Model{
		ctx:         ctx,
		svc:         opts.Service,
		config:      opts.Config,
		prefs:       opts.Prefs,
		ctrl:        controller.State{}.ChangeSearch(search.Value()),
		pollTick:    tick,
		theme:       theme,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		search:      search,
		spinner:     sp,
		form:        newDocumentForm(),
		showLogs:    opts.ShowLogs,
		logViewport: viewport.New(0, 0),
		clock:       time.Now,
	}
}

func (m Model) now() time.Time {
	if m.clock == nil {
		return time.Now()
	}
	return m.clock()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.snapshotCmd(),
		tickCmd(m.pollTick),
	}
	if m.showLogs {
		cmds = append(cmds, m.readLogsCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeLogs()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.toasts.Expire(time.Time(msg))
		cmds := []tea.Cmd{m.snapshotCmd(), tickCmd(m.pollTick)}
		if m.showLogs {
			cmds = append(cmds, m.readLogsCmd())
		}
		return m, tea.Batch(cmds...)

	case storeChangedMsg:
		return m, m.snapshotCmd()

	case snapshotMsg:
		cmd := m.reconcile(msg.props)
		m.observeSaves(msg.saves)
		return m, cmd

	case logLinesMsg:
		m.logLines = msg.lines
		m.logErr = msg.err
		m.refreshLogs()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// reconcile feeds new props through the controller and runs its commands.
func (m *Model) reconcile(next controller.Props) tea.Cmd {
	var cmds []controller.Command
	if !m.mounted {
		m.ctrl, cmds = controller.Mount(m.ctrl, next)
		m.mounted = true
	} else {
		m.ctrl, cmds = controller.Receive(m.ctrl, m.props, next)
	}
	m.props = next
	if !next.Subscribers.LastUpdated.IsZero() {
		m.lastUpdated = next.Subscribers.LastUpdated
	}
	m.clampSelection()
	return m.execute(cmds)
}

// execute turns controller commands into effects. Notifications and status
// clears apply immediately; backend calls run as commands.
func (m *Model) execute(cmds []controller.Command) tea.Cmd {
	var out []tea.Cmd
	for _, c := range cmds {
		switch c := c.(type) {
		case controller.FetchCommand:
			out = append(out, m.fetchCmd())
		case controller.DeleteCommand:
			out = append(out, m.deleteCmd(c.IMSI))
		case controller.NotifyCommand:
			m.toasts.Push(c.Notification, m.now())
		case controller.ClearStatusCommand:
			if m.svc != nil {
				m.svc.Clear(c.Operation)
			}
		}
	}
	return tea.Batch(out...)
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	svc := m.svc
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		store := svc.Store()
		return snapshotMsg{
			props: controller.Props{
				Subscribers: store.Snapshot(),
				Status:      store.Status(subscriber.OpDelete),
			},
			saves: map[subscriber.Operation]subscriber.ActionStatus{
				subscriber.OpCreate: store.Status(subscriber.OpCreate),
				subscriber.OpUpdate: store.Status(subscriber.OpUpdate),
			},
		}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		_ = svc.Fetch(ctx)
		return storeChangedMsg{}
	}
}

func (m Model) deleteCmd(imsi string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		_ = svc.Delete(ctx, imsi)
		return storeChangedMsg{}
	}
}

func (m Model) saveCmd(op subscriber.Operation, sub subscriber.Subscriber) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		_ = svc.Save(ctx, op, sub)
		return storeChangedMsg{}
	}
}

// handleKey routes a key press to whichever layer currently owns input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || msg.String() == "q" {
			m.showHelp = false
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.ctrl.Confirm.Visible:
		return m.handleConfirmKey(msg)
	case m.ctrl.Document.Visible:
		return m.handleDocumentKey(msg)
	case m.searching:
		return m.handleSearchKey(msg)
	}

	if m.showLogs && key.Matches(msg, m.keys.Escape) {
		m.showLogs = false
		m.persistPrefs()
		return m, nil
	}

	if m.ctrl.View.Visible {
		if model, cmd, handled := m.handleViewKey(msg); handled {
			return model, cmd
		}
	}

	return m.handleGlobalKey(msg)
}

func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	sub := m.ctrl.View.Subscriber
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.ctrl = m.ctrl.HideView()
		return m, nil, true
	case key.Matches(msg, m.keys.Edit):
		if sub == nil {
			return m, nil, true
		}
		imsi := sub.IMSI
		m.ctrl = m.ctrl.HideView()
		cmd := m.openDocument(controller.ActionUpdate, imsi)
		return m, cmd, true
	case key.Matches(msg, m.keys.Delete):
		if sub == nil {
			return m, nil, true
		}
		m.ctrl = m.ctrl.ShowConfirm(sub.IMSI)
		m.confirmFocus = 0
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.persistPrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		m.persistPrefs()
		if m.showLogs {
			return m, m.readLogsCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.svc != nil {
			m.svc.Refresh()
		}
		return m, m.snapshotCmd()

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.ctrl.Search != "" {
			m.ctrl = m.ctrl.ClearSearch()
			m.search.SetValue("")
			m.clampSelection()
			m.persistPrefs()
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		cmd := m.openDocument(controller.ActionCreate, "")
		return m, cmd
	}

	if m.showLogs {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}

	render := controller.Derive(m.ctrl, m.props)
	if !render.ShowSearch {
		return m, nil
	}
	rows := render.Visible(m.props.Subscribers)

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.ctrl.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(rows)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, len(rows)-1)
	case key.Matches(msg, m.keys.View):
		if sub, ok := m.selectedSubscriber(); ok {
			m.ctrl = m.ctrl.ShowView(sub)
		}
	case key.Matches(msg, m.keys.Edit):
		if sub, ok := m.selectedSubscriber(); ok {
			cmd := m.openDocument(controller.ActionUpdate, sub.IMSI)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Delete):
		if sub, ok := m.selectedSubscriber(); ok {
			m.ctrl = m.ctrl.ShowConfirm(sub.IMSI)
			m.confirmFocus = 0
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl = m.ctrl.ClearSearch()
		m.clampSelection()
		m.persistPrefs()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.persistPrefs()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl = m.ctrl.ChangeSearch(m.search.Value())
	m.clampSelection()
	return m, cmd
}

// visibleRows returns the rows the list currently shows.
func (m Model) visibleRows() []subscriber.Subscriber {
	return controller.Derive(m.ctrl, m.props).Visible(m.props.Subscribers)
}

func (m Model) selectedSubscriber() (subscriber.Subscriber, bool) {
	rows := m.visibleRows()
	if m.selected < 0 || m.selected >= len(rows) {
		return subscriber.Subscriber{}, false
	}
	return rows[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.visibleRows())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// persistPrefs saves theme, overlay and search choices. Failures are logged
// only.
func (m Model) persistPrefs() {
	if m.prefs == nil {
		return
	}
	err := m.prefs.Update(func(p *prefs.Prefs) {
		p.Theme = m.theme.Name
		p.ShowLogs = m.showLogs
		p.Search = m.ctrl.Search
	})
	if err != nil {
		logging.FromContext(m.ctx).Warn().Err(err).Msg("save prefs failed")
	}
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	render := controller.Derive(m.ctrl, m.props)
	switch {
	case render.Confirm.Visible:
		return m.placeDimmed(m.renderConfirm())
	case render.Document.Visible && render.Dimmed:
		return m.placeDimmed(m.renderDocument())
	}

	header := m.renderHeader(render)
	cmdBar := m.renderCommandBar(render)
	toasts := m.renderToasts()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(cmdBar) - lipgloss.Height(toasts)
	if toasts == "" {
		bodyHeight = m.height - lipgloss.Height(header) - lipgloss.Height(cmdBar)
	}
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	if m.showLogs {
		body = m.renderLogs(bodyHeight)
	} else {
		body = m.renderBody(render, bodyHeight)
	}

	parts := []string{header, body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, cmdBar)

	bg := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Background))
	return bg.Width(m.width).Height(m.height).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	return err
}
