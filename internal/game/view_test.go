package game

import (
	"testing"

	"github.com/lox/nlhe/internal/randutil"
	"github.com/lox/nlhe/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalActionsPreflop(t *testing.T) {
	t.Parallel()

	s := StartHand(newTestTable(t, 5, 10, 1000, 1000, 1000), randutil.New(1))
	opts := LegalActions(s)

	assert.Equal(t, 0, opts.Seat)
	assert.Equal(t, "p0", opts.PlayerID)
	assert.True(t, opts.CanFold)
	assert.False(t, opts.CanCheck)
	assert.True(t, opts.CanCall)
	assert.Equal(t, 10, opts.CallAmount)
	assert.False(t, opts.CanBet)
	assert.True(t, opts.CanRaise)
	assert.Equal(t, 20, opts.MinRaiseTo)
	assert.Equal(t, 1000, opts.MaxTotal)
	assert.True(t, opts.CanAllIn)
	assert.True(t, opts.Allows(Raise))
	assert.False(t, opts.Allows(Bet))
}

func TestLegalActionsShortStack(t *testing.T) {
	t.Parallel()

	s := StartHand(newTestTable(t, 5, 10, 150, 1000, 1000, 1000), randutil.New(1))
	s = mustApply(t, s, raise(100))
	opts := LegalActions(s)
	assert.Equal(t, 0, opts.Seat)
	assert.Equal(t, 100, opts.CallAmount)
	assert.Equal(t, 190, opts.MinRaiseTo)
	assert.Equal(t, 150, opts.MaxTotal)
	assert.False(t, opts.CanRaise, "only an all-in is left above a call")
	assert.True(t, opts.CanAllIn)
}

func TestLegalActionsStackBelowBigBlind(t *testing.T) {
	t.Parallel()

	// p2 posts the big blind from 15 chips and sees the flop with 5 behind.
	s := StartHand(newTestTable(t, 5, 10, 1000, 1000, 15), randutil.New(1))
	s = mustApply(t, s, call(), call(), check())
	require.Equal(t, Flop, s.Street)
	require.Equal(t, 2, s.CurrentPlayer)
	require.Equal(t, 5, s.Players[2].Chips)

	opts := LegalActions(s)
	assert.False(t, opts.CanBet, "short stack is steered to all-in")
	assert.True(t, opts.CanAllIn)
	assert.True(t, opts.CanCheck)
	assert.Equal(t, 5, opts.MaxTotal)

	// A bet sized at the big blind is still accepted and clamped.
	next := mustApply(t, s, bet(10))
	assert.Equal(t, StatusAllIn, next.Players[2].Status)
	assert.Equal(t, 5, next.CurrentBet)
}

func TestLegalActionsNoHand(t *testing.T) {
	t.Parallel()

	opts := LegalActions(newTestTable(t, 1, 2, 100, 100))
	assert.Equal(t, NoSeat, opts.Seat)
	assert.False(t, opts.CanFold)
}

func TestViewHidesHoleCards(t *testing.T) {
	t.Parallel()

	s := StartHand(newTestTable(t, 5, 10, 1000, 1000, 1000), randutil.New(1))

	v := s.View("p1")
	assert.Len(t, v.Seats[1].HoleCards, 2)
	assert.Empty(t, v.Seats[0].HoleCards)
	assert.Empty(t, v.Seats[2].HoleCards)
	assert.Nil(t, v.Options, "not p1's turn")
	assert.Equal(t, 15, v.PotTotal)
	require.Len(t, v.Pots, 1)
	assert.True(t, v.Seats[0].Dealer)

	v = s.View("p0")
	require.NotNil(t, v.Options)
	assert.Equal(t, 10, v.Options.CallAmount)

	v = s.View("")
	for _, seat := range v.Seats {
		assert.Len(t, seat.HoleCards, 2)
	}

	v = s.PublicView()
	for _, seat := range v.Seats {
		assert.Empty(t, seat.HoleCards)
	}
	assert.Nil(t, v.Options)
}

func TestViewRevealsShowdownHands(t *testing.T) {
	t.Parallel()

	// p1 folds, p2 and p0 check down.
	cards := poker.MustParseCards("2c 3c 4c 5c 6c 7c Kh 9s 5d 3d Jh")
	s := StartHand(newTestTable(t, 5, 10, 1000, 1000, 1000), nil, WithDeck(poker.StackedDeck(cards...)))
	s = mustApply(t, s, call(), fold())
	require.Equal(t, Flop, s.Street)
	s = mustApply(t, s, check(), check(), check(), check(), check(), check())
	require.False(t, s.InProgress)

	v := s.View("p0")
	assert.Len(t, v.Seats[2].HoleCards, 2, "showdown hand is public")
	assert.Empty(t, v.Seats[1].HoleCards, "folded hand stays hidden")
	assert.Len(t, s.PublicView().Seats[0].HoleCards, 2)
	assert.Equal(t, 25, v.PotTotal)
	assert.Equal(t, 1015, v.Seats[2].Chips)
}

func TestViewIsIndependentCopy(t *testing.T) {
	t.Parallel()

	s := StartHand(newTestTable(t, 1, 2, 100, 100), randutil.New(1))
	v := s.View("")
	v.Seats[0].HoleCards[0] = poker.Card{}
	assert.True(t, s.Players[0].HoleCards[0].Valid())
}
