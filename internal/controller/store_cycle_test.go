package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/subdeck/internal/state"
	"github.com/five82/subdeck/internal/subscriber"
)

// observer feeds store snapshots through Mount and Receive the way the UI
// ticker does.
type observer struct {
	store   *state.Store
	state   State
	props   Props
	mounted bool
}

func (o *observer) observe() []Command {
	next := Props{
		Subscribers: o.store.Snapshot(),
		Status:      o.store.Status(subscriber.OpDelete),
	}
	var cmds []Command
	if !o.mounted {
		o.state, cmds = Mount(o.state, next)
		o.mounted = true
	} else {
		o.state, cmds = Receive(o.state, o.props, next)
	}
	o.props = next
	return cmds
}

func rows(snap subscriber.Snapshot) []string {
	out := make([]string, 0, snap.Len())
	for _, sub := range snap.Sorted() {
		out = append(out, sub.IMSI)
	}
	return out
}

func TestStoreCycle_StaleFreshStaleBetweenObservations(t *testing.T) {
	store := state.NewStore()
	o := &observer{store: store}

	require.Equal(t, 1, fetches(o.observe()))

	// A full fetch completes and the poller invalidates before the next tick.
	require.True(t, store.BeginFetch())
	store.FinishFetch([]subscriber.Subscriber{{IMSI: "1"}}, nil)
	store.Invalidate()

	total := 0
	for i := 0; i < 5; i++ {
		total += fetches(o.observe())
	}
	require.Equal(t, 1, total)

	require.True(t, store.BeginFetch())
	store.FinishFetch([]subscriber.Subscriber{{IMSI: "1"}}, nil)
	require.Zero(t, fetches(o.observe()))
}

func TestStoreCycle_DeleteDuringFetchRefetches(t *testing.T) {
	store := state.NewStore()
	o := &observer{store: store}
	require.Equal(t, 1, fetches(o.observe()))

	require.True(t, store.BeginFetch())
	store.BeginAction(subscriber.OpDelete, "1")
	store.FinishAction(subscriber.OpDelete, "1", nil, nil)

	cmds := o.observe()
	require.Zero(t, fetches(cmds))
	require.Len(t, notifications(cmds), 1)

	// The list response predates the delete.
	store.FinishFetch([]subscriber.Subscriber{{IMSI: "1"}, {IMSI: "2"}}, nil)
	store.ClearAction(subscriber.OpDelete)

	snap := store.Snapshot()
	require.True(t, snap.NeedsFetch)
	require.Equal(t, []string{"1", "2"}, rows(snap))
	require.Equal(t, 1, fetches(o.observe()))

	require.True(t, store.BeginFetch())
	store.FinishFetch([]subscriber.Subscriber{{IMSI: "2"}}, nil)
	require.Zero(t, fetches(o.observe()))
	require.Equal(t, []string{"2"}, rows(store.Snapshot()))
}

func TestStoreCycle_InvalidateWhileLoadingRefetchesOnce(t *testing.T) {
	store := state.NewStore()
	o := &observer{store: store}
	require.Equal(t, 1, fetches(o.observe()))

	require.True(t, store.BeginFetch())
	store.Invalidate()
	store.Invalidate()
	require.Zero(t, fetches(o.observe()))

	store.FinishFetch(nil, nil)
	require.Equal(t, 1, fetches(o.observe()))
	require.Zero(t, fetches(o.observe()))
}
