package simulator

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/bot"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 12345
	cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	return cfg
}

func run(t *testing.T, cfg Config) *Report {
	t.Helper()
	sim, err := New(cfg)
	require.NoError(t, err)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	return report
}

func sumBB(r *Report) float64 {
	total := 0.0
	for _, st := range r.Strategies {
		total += st.SumBB
	}
	return total
}

func TestNewValidates(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name   string
		modify func(*Config)
	}{
		{"no tables", func(c *Config) { c.Tables = 0 }},
		{"no hands", func(c *Config) { c.Hands = 0 }},
		{"one player", func(c *Config) { c.Players = 1 }},
		{"too many players", func(c *Config) { c.Players = game.MaxSeats + 1 }},
		{"bad blinds", func(c *Config) { c.SmallBlind = 0 }},
		{"no chips", func(c *Config) { c.StartingChips = 0 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.modify(&cfg)
			_, err := New(cfg)
			require.ErrorIs(t, err, game.ErrInvalidInput)
		})
	}

	cfg := testConfig()
	cfg.Strategies = []string{"caller", "genius"}
	_, err := New(cfg)
	require.ErrorIs(t, err, bot.ErrUnknownStrategy)
}

func TestFoldBotsWalkOver(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Players = 3
	cfg.Hands = 30
	cfg.Strategies = []string{"fold"}
	report := run(t, cfg)

	require.Len(t, report.Tables, 1)
	table := report.Tables[0]
	assert.Equal(t, 30, table.Hands)
	assert.Zero(t, table.Showdowns)
	assert.Equal(t, 30, table.Walkovers)
	assert.Equal(t, map[game.Street]int{game.Preflop: 30}, table.Endings)
	assert.Equal(t, 3, table.LargestPot, "only the blinds go in")
	assert.Zero(t, table.IllegalActions)
	assert.Equal(t, []string{"fold"}, report.StrategyNames())
	assert.Equal(t, 90, report.Strategies["fold"].Hands)
	assert.InDelta(t, 0, sumBB(report), 1e-9)
}

func TestCallersCheckDown(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Players = 2
	cfg.Hands = 50
	cfg.Strategies = []string{"caller"}
	report := run(t, cfg)

	table := report.Tables[0]
	assert.Equal(t, 50, table.Showdowns)
	assert.Equal(t, 50, table.Endings[game.Showdown])
	assert.Equal(t, 400, table.Stacks["caller-1"]+table.Stacks["caller-2"])
	assert.InDelta(t, 0, sumBB(report), 1e-9)
}

func TestMixedTablesConserveChips(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Tables = 4
	cfg.Hands = 150
	cfg.Parallelism = 2
	report := run(t, cfg)

	require.Len(t, report.Tables, 4)
	assert.Equal(t, 600, report.Hands())
	assert.Equal(t, bot.Strategies(), report.StrategyNames())
	for i, table := range report.Tables {
		assert.Equal(t, randutil.Derive(cfg.Seed, i), table.Seed)
		assert.Equal(t, table.Hands, table.Showdowns+table.Walkovers)

		chips := 0
		for _, stack := range table.Stacks {
			chips += stack
		}
		assert.Equal(t, cfg.Players*cfg.StartingChips+table.Rebuys*cfg.StartingChips, chips, "table %s", table.ID)
	}
	assert.InDelta(t, 0, sumBB(report), 1e-6)

	again := run(t, cfg)
	assert.Equal(t, report.Tables, again.Tables, "same seed replays the same hands")
}

func TestTableBreaksUpWithoutRebuy(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Players = 3
	cfg.Hands = 5000
	cfg.StartingChips = 20
	cfg.Rebuy = false
	cfg.Strategies = []string{"maniac"}
	report := run(t, cfg)

	table := report.Tables[0]
	assert.Less(t, table.Hands, 5000)
	assert.Zero(t, table.Rebuys)

	funded := 0
	for _, stack := range table.Stacks {
		if stack > 0 {
			funded++
		}
	}
	assert.Equal(t, 1, funded)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	sim, err := New(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckInvariants(t *testing.T) {
	t.Parallel()

	state, err := game.CreateTable(game.TableConfig{
		ID:         "t",
		Seats:      []game.SeatConfig{{ID: "a", Chips: 100}, {ID: "b", Chips: 100}},
		SmallBlind: 1,
		BigBlind:   2,
	})
	require.NoError(t, err)
	state = game.StartHand(state, randutil.New(1))
	require.NoError(t, checkInvariants(state, 200))

	require.ErrorIs(t, checkInvariants(state, 201), ErrInvariant)

	broken := state.Clone()
	broken.Players[broken.CurrentPlayer].Status = game.StatusFolded
	require.ErrorIs(t, checkInvariants(broken, 200), ErrInvariant)

	broken = state.Clone()
	broken.Players[0].Chips = -5
	broken.Players[1].Chips += 5
	require.ErrorIs(t, checkInvariants(broken, 200), ErrInvariant)
}

func TestHistoryRecordsEveryHand(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Players = 3
	cfg.Hands = 5
	cfg.Strategies = []string{"fold"}
	cfg.History = true
	report := run(t, cfg)

	histories := report.Tables[0].Histories
	require.Len(t, histories, 5)
	for i, h := range histories {
		assert.Equal(t, fmt.Sprintf("sim-1-%d", i+1), h.HandID)
		// Three deals, then the first two players to act fold.
		require.Len(t, h.Actions, 5)
		assert.Equal(t, "p3 f", h.Actions[3])
		assert.Equal(t, "p1 f", h.Actions[4])
		assert.Equal(t, []int{0, 3, 0}, h.Winnings)

		sum := 0
		for j := range h.StartingStacks {
			sum += h.FinishingStacks[j] - h.StartingStacks[j]
		}
		assert.Zero(t, sum)
	}

	cfg.History = false
	assert.Empty(t, run(t, cfg).Tables[0].Histories)
}
