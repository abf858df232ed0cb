package subscriber

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	sub := Subscriber{IMSI: "310150123456789", MSISDN: []string{"15551234567"}}

	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty", "", true},
		{"blank", "   ", true},
		{"imsi prefix", "31015", true},
		{"imsi middle", "0123", true},
		{"msisdn", "5551234", true},
		{"miss", "999999", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Match(sub, tc.query))
		})
	}
}

func TestFilter_SkipsHiddenID(t *testing.T) {
	subs := []Subscriber{
		{IMSI: "001010000000001"},
		{IMSI: "001010000000002"},
		{IMSI: "999700000000003"},
	}

	got := Filter(subs, "00101", "001010000000002")
	require.Len(t, got, 1)
	require.Equal(t, "001010000000001", got[0].IMSI)

	require.Len(t, Filter(subs, "", ""), 3)
}

func TestSnapshot_SortedAndGet(t *testing.T) {
	snap := Snapshot{Data: map[string]Subscriber{
		"3": {IMSI: "3"},
		"1": {IMSI: "1"},
		"2": {IMSI: "2"},
	}}

	sorted := snap.Sorted()
	require.Equal(t, []string{"1", "2", "3"}, []string{sorted[0].IMSI, sorted[1].IMSI, sorted[2].IMSI})

	sub, ok := snap.Get("2")
	require.True(t, ok)
	require.Equal(t, "2", sub.IMSI)

	_, ok = snap.Get("missing")
	require.False(t, ok)

	require.Nil(t, Snapshot{}.Sorted())
}

func TestBitrateString(t *testing.T) {
	require.Equal(t, "1 Gbps", Bitrate{Value: 1, Unit: 3}.String())
	require.Equal(t, "7 bps", Bitrate{Value: 7, Unit: 42}.String())
}

func TestActionStatusTerminal(t *testing.T) {
	require.False(t, ActionStatus{Pending: true}.Terminal())
	require.True(t, ActionStatus{Response: &Result{ID: "x"}}.Terminal())
	require.True(t, ActionStatus{Error: &ErrorInfo{}}.Terminal())
}
