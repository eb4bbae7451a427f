package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestTable seats players p0..pN with the given stacks.
func newTestTable(t *testing.T, sb, bb int, chips ...int) TableState {
	t.Helper()
	seats := make([]SeatConfig, len(chips))
	for i, c := range chips {
		seats[i] = SeatConfig{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player %d", i), Chips: c}
	}
	s, err := CreateTable(TableConfig{ID: "test", Seats: seats, SmallBlind: sb, BigBlind: bb})
	require.NoError(t, err)
	return s
}

// mustApply applies each action in turn, failing the test on rejection.
func mustApply(t *testing.T, s TableState, actions ...Action) TableState {
	t.Helper()
	for _, a := range actions {
		next, err := ApplyAction(s, a)
		require.NoError(t, err, "applying %s for seat %d", a, s.CurrentPlayer)
		s = next
	}
	return s
}

func fold() Action           { return Action{Type: Fold} }
func check() Action          { return Action{Type: Check} }
func call() Action           { return Action{Type: Call} }
func allIn() Action          { return Action{Type: AllIn} }
func bet(amount int) Action  { return Action{Type: Bet, Amount: amount} }
func raise(total int) Action { return Action{Type: Raise, Amount: total} }
