package game

import (
	"math/rand/v2"
	"testing"

	"github.com/lox/nlhe/internal/randutil"
	"github.com/stretchr/testify/require"
)

// randomAction picks uniformly among the legal choices with a random size.
func randomAction(rng *rand.Rand, opts Options) Action {
	var choices []Action
	if opts.CanFold {
		choices = append(choices, fold())
	}
	if opts.CanCheck {
		choices = append(choices, check(), check())
	}
	if opts.CanCall {
		choices = append(choices, call(), call())
	}
	if opts.CanBet {
		choices = append(choices, bet(opts.MinBet+rng.IntN(opts.MaxTotal-opts.MinBet+1)))
	}
	if opts.CanRaise {
		choices = append(choices, raise(opts.MinRaiseTo+rng.IntN(opts.MaxTotal-opts.MinRaiseTo+1)))
	}
	if opts.CanAllIn {
		choices = append(choices, allIn())
	}
	return choices[rng.IntN(len(choices))]
}

func requireInvariants(t *testing.T, s TableState, total int) {
	t.Helper()
	require.Equal(t, total, s.TotalChips(), "chips are conserved")
	for _, p := range s.Players {
		require.GreaterOrEqual(t, p.Chips, 0)
		require.LessOrEqual(t, p.CurrentBet, p.TotalCommitted)
		if p.Status == StatusActive && s.InProgress {
			require.Positive(t, p.Chips, "seat %d is active with no chips", p.Seat)
		}
		if s.InProgress {
			require.Equal(t, p.TotalCommitted, s.Commitments[p.ID])
		}
	}
	if s.InProgress {
		cur, ok := s.Current()
		require.True(t, ok)
		require.Equal(t, StatusActive, cur.Status)
	} else {
		require.Zero(t, s.PotTotal())
	}
}

func TestRandomPlayConservesChips(t *testing.T) {
	t.Parallel()

	rng := randutil.New(20240601)
	for range 40 {
		stacks := make([]int, 2+rng.IntN(MaxSeats-1))
		for i := range stacks {
			stacks[i] = 20 + rng.IntN(400)
		}
		s := newTestTable(t, 2, 4, stacks...)
		total := s.TotalChips()

		for range 30 {
			s = StartHand(s, rng)
			requireInvariants(t, s, total)
			if !s.InProgress && s.Result == nil {
				break
			}
			for steps := 0; s.InProgress; steps++ {
				require.Less(t, steps, 1000, "hand did not terminate")
				next, err := ApplyAction(s, randomAction(rng, LegalActions(s)))
				require.NoError(t, err)
				s = next
				requireInvariants(t, s, total)
			}
			require.NotNil(t, s.Result)

			won := 0
			for _, v := range s.Result.Winnings {
				won += v
			}
			committed := 0
			for _, p := range s.Players {
				committed += p.TotalCommitted
			}
			require.Equal(t, committed, won, "every committed chip is paid out")
		}
	}
}
