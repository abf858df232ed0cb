package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/five82/subdeck/internal/api"
	"github.com/five82/subdeck/internal/controller"
	"github.com/five82/subdeck/internal/crud"
	"github.com/five82/subdeck/internal/logging"
	"github.com/five82/subdeck/internal/notify"
	"github.com/five82/subdeck/internal/prefs"
	"github.com/five82/subdeck/internal/state"
	"github.com/five82/subdeck/internal/subscriber"
)

type fakeAPI struct {
	subs      []subscriber.Subscriber
	listErr   error
	deleteErr error
	saveErr   error

	lists   int
	deleted []string
	created []subscriber.Subscriber
	updated []subscriber.Subscriber
}

func (f *fakeAPI) ListSubscribers(context.Context) ([]subscriber.Subscriber, error) {
	f.lists++
	return f.subs, f.listErr
}

func (f *fakeAPI) GetSubscriber(_ context.Context, imsi string) (subscriber.Subscriber, error) {
	for _, s := range f.subs {
		if s.IMSI == imsi {
			return s, nil
		}
	}
	return subscriber.Subscriber{}, &api.APIError{StatusCode: 404}
}

func (f *fakeAPI) CreateSubscriber(_ context.Context, sub subscriber.Subscriber) (subscriber.Subscriber, error) {
	if f.saveErr != nil {
		return subscriber.Subscriber{}, f.saveErr
	}
	f.created = append(f.created, sub)
	return sub, nil
}

func (f *fakeAPI) UpdateSubscriber(_ context.Context, sub subscriber.Subscriber) (subscriber.Subscriber, error) {
	if f.saveErr != nil {
		return subscriber.Subscriber{}, f.saveErr
	}
	f.updated = append(f.updated, sub)
	return sub, nil
}

func (f *fakeAPI) DeleteSubscriber(_ context.Context, imsi string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, imsi)
	return nil
}

var testSubs = []subscriber.Subscriber{
	{IMSI: "001010000000001", MSISDN: []string{"0101"}},
	{IMSI: "001010000000002", MSISDN: []string{"0102"}},
	{IMSI: "310150123456789", MSISDN: []string{"5550100"}},
}

func newTestModel(t *testing.T, fake *fakeAPI) (Model, *crud.Service) {
	t.Helper()
	var svc *crud.Service
	if fake != nil {
		svc = crud.New(fake, state.NewStore(), crud.WithLogger(&logging.Nop))
	}
	m := New(Options{Service: svc})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, svc
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+d":
		msg = tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

// runCmd executes cmd and any batched commands, returning the produced
// messages. Only call it with commands that do not sleep.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle snapshots the store and feeds the result back until no backend
// command is pending.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 8; i++ {
		next, cmd := m.Update(m.snapshotCmd()())
		m = next.(Model)
		changed := false
		for _, msg := range runCmd(cmd) {
			if _, ok := msg.(storeChangedMsg); ok {
				changed = true
			}
		}
		if !changed {
			return m
		}
	}
	t.Fatalf("store did not settle")
	return m
}

func runBackend(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		_, ok := msg.(storeChangedMsg)
		require.True(t, ok, "unexpected message %T", msg)
	}
	return settle(t, m)
}

func TestMountFetchesOnce(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, svc := newTestModel(t, fake)

	m = settle(t, m)

	require.Equal(t, 1, fake.lists)
	require.True(t, m.mounted)
	require.Len(t, m.visibleRows(), 3)
	require.False(t, svc.Store().Snapshot().NeedsFetch)

	m = settle(t, m)
	require.Equal(t, 1, fake.lists, "steady snapshots must not refetch")
}

func TestRefreshKeyFetchesAgain(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "r")
	m = settle(t, m)
	require.Equal(t, 2, fake.lists)
}

func TestPlaceholderWhenEmpty(t *testing.T) {
	m, _ := newTestModel(t, &fakeAPI{})
	m = settle(t, m)

	render := controller.Derive(m.ctrl, m.props)
	require.True(t, render.ShowPlaceholder)
	require.Contains(t, m.View(), controller.BlankTitle)
	require.Contains(t, m.View(), controller.BlankBody)

	m, _ = press(t, m, "n")
	require.True(t, m.ctrl.Document.Visible)
	require.Equal(t, controller.ActionCreate, m.ctrl.Document.Action)
	require.Empty(t, m.ctrl.Document.IMSI)
}

func TestSpinnerWhileLoadingWithoutData(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = step(t, m, snapshotMsg{props: controller.Props{
		Subscribers: subscriber.Snapshot{IsLoading: true},
	}})

	view := m.View()
	require.Contains(t, view, "Loading subscribers...")
	require.NotContains(t, view, controller.BlankTitle)
}

func TestSearchFiltersRows(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "/")
	require.True(t, m.searching)
	m = typeText(t, m, "5550")
	require.Equal(t, "5550", m.ctrl.Search)
	rows := m.visibleRows()
	require.Len(t, rows, 1)
	require.Equal(t, "310150123456789", rows[0].IMSI)

	m, _ = press(t, m, "enter")
	require.False(t, m.searching)
	require.Equal(t, "5550", m.ctrl.Search)

	m, _ = press(t, m, "esc")
	require.Empty(t, m.ctrl.Search)
	require.Len(t, m.visibleRows(), 3)
}

func TestSearchAndThemePersistAcrossRestart(t *testing.T) {
	file, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.toml"))
	require.NoError(t, err)

	fake := &fakeAPI{subs: testSubs}
	svc := crud.New(fake, state.NewStore(), crud.WithLogger(&logging.Nop))
	m := New(Options{Service: svc, Prefs: file})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = settle(t, m)

	m, _ = press(t, m, "/")
	m = typeText(t, m, "5550")
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "T")

	saved, err := file.Load()
	require.NoError(t, err)
	require.Equal(t, prefs.Prefs{Theme: m.theme.Name, Search: "5550"}, saved)
	require.NotEqual(t, "Dracula", saved.Theme)

	restored := New(Options{Service: svc, Prefs: file, ThemeName: saved.Theme, Search: saved.Search})
	restored = step(t, restored, tea.WindowSizeMsg{Width: 120, Height: 40})
	restored = settle(t, restored)
	require.Equal(t, "5550", restored.ctrl.Search)
	require.Equal(t, "5550", restored.search.Value())
	require.Len(t, restored.visibleRows(), 1)
}

func TestDeleteFlowNotifiesAndClears(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, svc := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "d")
	require.True(t, m.ctrl.Confirm.Visible)
	require.Equal(t, "001010000000002", m.ctrl.Confirm.IMSI)
	require.Contains(t, m.View(), controller.ConfirmMessage)

	m, cmd := press(t, m, "y")
	require.False(t, m.ctrl.Confirm.Visible)
	m = runBackend(t, m, cmd)

	require.Equal(t, []string{"001010000000002"}, fake.deleted)
	active := m.toasts.Active()
	require.Len(t, active, 1)
	require.Equal(t, notify.LevelSuccess, active[0].Level)
	require.Equal(t, "Subscriber", active[0].Title)
	require.Equal(t, "001010000000002 has been deleted", active[0].Message)
	require.False(t, svc.Store().Status(subscriber.OpDelete).Terminal())
	require.Equal(t, 2, fake.lists, "a successful delete refetches once")

	m = settle(t, m)
	require.Len(t, m.toasts.Active(), 1, "a consumed status must not notify twice")
}

func TestDeleteFailureShowsPersistentError(t *testing.T) {
	fake := &fakeAPI{
		subs:      testSubs,
		deleteErr: &api.APIError{StatusCode: 500, Name: "MongoError", Message: "write failed"},
	}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	m = runBackend(t, m, cmd)

	active := m.toasts.Active()
	require.Len(t, active, 1)
	require.Equal(t, notify.LevelError, active[0].Level)
	require.Equal(t, "MongoError", active[0].Title)
	require.Equal(t, "write failed", active[0].Message)
	require.True(t, active[0].Persistent())
	require.NotNil(t, active[0].Action)
	require.Equal(t, "Dismiss", active[0].Action.Label)

	m.toasts.Expire(time.Now().Add(time.Hour))
	require.Len(t, m.toasts.Active(), 1)

	m, _ = press(t, m, "D")
	require.Empty(t, m.toasts.Active())
}

func TestConfirmCancelButtonIsDefault(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "enter")
	require.False(t, m.ctrl.Confirm.Visible)
	require.Nil(t, runCmd(cmd))
	require.Empty(t, fake.deleted)

	m, _ = press(t, m, "d")
	m, _ = press(t, m, "l")
	require.Equal(t, 1, m.confirmFocus)
	m, cmd = press(t, m, "enter")
	m = runBackend(t, m, cmd)
	require.Equal(t, []string{"001010000000001"}, fake.deleted)
}

func TestViewPanelEditAndDelete(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "enter")
	require.True(t, m.ctrl.View.Visible)
	require.Equal(t, "001010000000001", m.ctrl.View.Subscriber.IMSI)
	require.Contains(t, m.View(), "Downlink")

	m, _ = press(t, m, "esc")
	require.False(t, m.ctrl.View.Visible)

	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "e")
	require.False(t, m.ctrl.View.Visible)
	require.True(t, m.ctrl.Document.Visible)
	require.Equal(t, controller.ActionUpdate, m.ctrl.Document.Action)
	require.Equal(t, "001010000000001", m.ctrl.Document.IMSI)

	m, _ = press(t, m, "esc")
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "d")
	require.True(t, m.ctrl.Confirm.Visible)
	require.Equal(t, "001010000000001", m.ctrl.Confirm.IMSI)
}

func TestCreateSavesAndCloses(t *testing.T) {
	fake := &fakeAPI{}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "n")
	m = typeText(t, m, "001010000000009")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "0109")
	m, cmd := press(t, m, "ctrl+s")
	require.True(t, m.form.saving)
	m = runBackend(t, m, cmd)

	require.Len(t, fake.created, 1)
	created := fake.created[0]
	require.Equal(t, "001010000000009", created.IMSI)
	require.Equal(t, []string{"0109"}, created.MSISDN)
	require.Equal(t, defaultAMBR, created.AMBR)

	require.False(t, m.ctrl.Document.Visible)
	active := m.toasts.Active()
	require.Len(t, active, 1)
	require.Equal(t, "001010000000009 has been saved", active[0].Message)
}

func TestUpdateKeepsIMSILocked(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "e")
	require.Equal(t, fieldMSISDN, m.form.focus)
	for i := 0; i < fieldCount; i++ {
		m, _ = press(t, m, "tab")
		require.NotEqual(t, fieldIMSI, m.form.focus)
	}

	m, cmd := press(t, m, "ctrl+s")
	m = runBackend(t, m, cmd)
	require.Len(t, fake.updated, 1)
	require.Equal(t, "001010000000001", fake.updated[0].IMSI)
	require.Equal(t, []string{"0101"}, fake.updated[0].MSISDN)
}

func TestSaveFailureKeepsFormOpen(t *testing.T) {
	fake := &fakeAPI{
		saveErr: &api.APIError{StatusCode: 400, Name: "ValidationError", Message: "imsi invalid"},
	}
	m, svc := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "n")
	m = typeText(t, m, "bogus")
	m, cmd := press(t, m, "ctrl+s")
	m = runBackend(t, m, cmd)

	require.True(t, m.ctrl.Document.Visible)
	require.False(t, m.form.saving)
	active := m.toasts.Active()
	require.Len(t, active, 1)
	require.Equal(t, "ValidationError", active[0].Title)
	require.Equal(t, "imsi invalid", active[0].Message)
	require.False(t, svc.Store().Status(subscriber.OpCreate).Terminal())
}

func TestDocumentDeleteOpensConfirmOverForm(t *testing.T) {
	fake := &fakeAPI{subs: testSubs}
	m, _ := newTestModel(t, fake)
	m = settle(t, m)

	m, _ = press(t, m, "e")
	m, _ = press(t, m, "ctrl+d")
	require.True(t, m.ctrl.Confirm.Visible)
	require.True(t, m.ctrl.Document.Visible)

	m, cmd := press(t, m, "y")
	require.False(t, m.ctrl.Confirm.Visible)
	require.False(t, m.ctrl.Document.Visible)
	m = runBackend(t, m, cmd)
	require.Equal(t, []string{"001010000000001"}, fake.deleted)
}

func TestHeaderShowsOfflineAfterRepeatedFailures(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = step(t, m, snapshotMsg{props: controller.Props{
		Subscribers: subscriber.Snapshot{
			Data:                map[string]subscriber.Subscriber{testSubs[0].IMSI: testSubs[0]},
			LastUpdated:         time.Now(),
			LastError:           &api.APIError{Path: "/api/db/Subscriber", StatusCode: 502},
			ConsecutiveFailures: 2,
		},
	}})

	header := m.renderHeader(controller.Derive(m.ctrl, m.props))
	require.Contains(t, header, "ERROR")
	require.False(t, strings.Contains(header, "ONLINE"))
}

func TestHelpOverlayToggles(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, "?")
	require.True(t, m.showHelp)
	require.Contains(t, m.View(), "Delete subscriber")

	m, _ = press(t, m, "?")
	require.False(t, m.showHelp)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
