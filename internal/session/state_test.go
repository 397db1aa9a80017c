package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateStringKnownValues(t *testing.T) {
	cases := map[State]string{
		Disconnected: "Disconnected",
		Connecting:   "Connecting",
		Greeting:     "Greeting",
		LoginPending: "LoginPending",
		Ready:        "Ready",
		Draining:     "Draining",
		Closed:       "Closed",
	}
	for state, want := range cases {
		require.Equal(t, want, state.String())
	}
}

func TestStateStringUnknown(t *testing.T) {
	require.Equal(t, "Unknown", State(99).String())
}
