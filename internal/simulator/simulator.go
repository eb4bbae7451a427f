// Package simulator plays bots against each other on many tables at once,
// checking the engine's accounting after every action.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/bot"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/phh"
	"github.com/lox/nlhe/internal/randutil"
	"github.com/lox/nlhe/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// ErrInvariant is returned when a table reaches an inconsistent state.
var ErrInvariant = errors.New("invariant violated")

// maxActions bounds a single hand so a stuck betting round is reported
// instead of spinning forever.
const maxActions = 1000

// Config holds configuration for running simulations
type Config struct {
	Tables        int
	Hands         int
	Players       int
	Strategies    []string // Assigned to seats in turn; empty means every strategy
	StartingChips int
	SmallBlind    int
	BigBlind      int
	Rebuy         bool // Refill busted seats between hands
	History       bool // Keep a PHH record of every hand
	Seed          int64
	Parallelism   int // Tables run at once; zero means no limit
	Logger        *log.Logger
}

// DefaultConfig is a six-handed 1/2 game with 100 big blind stacks.
func DefaultConfig() Config {
	return Config{
		Tables:        1,
		Hands:         1000,
		Players:       6,
		StartingChips: 200,
		SmallBlind:    1,
		BigBlind:      2,
		Rebuy:         true,
	}
}

// TableReport describes what happened at one table.
type TableReport struct {
	ID             string
	Seed           int64
	Hands          int
	Showdowns      int
	Walkovers      int
	LargestPot     int
	Rebuys         int
	IllegalActions int
	Endings        map[game.Street]int // Street each hand finished on
	Stacks         map[string]int      // Final stacks by player id

	Histories []*phh.HandHistory `json:"-"`
}

// Report is the outcome of a simulation run.
type Report struct {
	Tables     []TableReport
	Strategies map[string]*statistics.Statistics
}

// Hands returns the hands played over all tables.
func (r *Report) Hands() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Hands
	}
	return n
}

// StrategyNames returns the strategies in the report, sorted.
func (r *Report) StrategyNames() []string {
	return slices.Sorted(maps.Keys(r.Strategies))
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New validates cfg and creates a simulator.
func New(cfg Config) (*Simulator, error) {
	if cfg.Tables < 1 || cfg.Hands < 1 {
		return nil, fmt.Errorf("%w: need at least one table and hand", game.ErrInvalidInput)
	}
	if cfg.Players < 2 || cfg.Players > game.MaxSeats {
		return nil, fmt.Errorf("%w: players must be between 2 and %d", game.ErrInvalidInput, game.MaxSeats)
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = bot.Strategies()
	}
	for _, name := range cfg.Strategies {
		if _, err := bot.New(name, nil, log.Default()); err != nil {
			return nil, err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	// Surface blind and stack errors before any goroutine starts.
	if _, err := game.CreateTable(tableConfig(cfg, "check")); err != nil {
		return nil, err
	}
	return &Simulator{config: cfg, logger: cfg.Logger.WithPrefix("sim")}, nil
}

// Run plays every table to completion. The first error cancels the other
// tables.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	reports := make([]TableReport, s.config.Tables)
	stats := make(map[string]*statistics.Statistics)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if s.config.Parallelism > 0 {
		g.SetLimit(s.config.Parallelism)
	}
	for i := range s.config.Tables {
		g.Go(func() error {
			report, tableStats, err := s.playTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d (seed %d): %w", i+1, report.Seed, err)
			}
			mu.Lock()
			defer mu.Unlock()
			reports[i] = report
			for name, st := range tableStats {
				if stats[name] == nil {
					stats[name] = &statistics.Statistics{}
				}
				stats[name].Merge(st)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for name, st := range stats {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("statistics for %s: %w", name, err)
		}
	}
	return &Report{Tables: reports, Strategies: stats}, nil
}

func tableConfig(cfg Config, id string) game.TableConfig {
	seats := make([]game.SeatConfig, cfg.Players)
	for i := range seats {
		strategy := cfg.Strategies[i%len(cfg.Strategies)]
		seats[i] = game.SeatConfig{
			ID:    fmt.Sprintf("%s-%d", strategy, i+1),
			Name:  fmt.Sprintf("%s %d", strategy, i+1),
			Chips: cfg.StartingChips,
		}
	}
	return game.TableConfig{ID: id, Seats: seats, SmallBlind: cfg.SmallBlind, BigBlind: cfg.BigBlind}
}

func (s *Simulator) playTable(ctx context.Context, index int) (TableReport, map[string]*statistics.Statistics, error) {
	seed := randutil.Derive(s.config.Seed, index)
	report := TableReport{
		ID:      fmt.Sprintf("sim-%d", index+1),
		Seed:    seed,
		Endings: make(map[game.Street]int),
	}
	logger := s.logger.With("table", report.ID)

	state, err := game.CreateTable(tableConfig(s.config, report.ID))
	if err != nil {
		return report, nil, err
	}

	rng := randutil.New(seed)
	agents := make([]bot.Agent, len(state.Players))
	strategyOf := make([]string, len(state.Players))
	for i := range state.Players {
		strategyOf[i] = s.config.Strategies[i%len(s.config.Strategies)]
		agents[i], err = bot.New(strategyOf[i], randutil.New(randutil.Derive(seed, i)), logger)
		if err != nil {
			return report, nil, err
		}
	}

	stats := make(map[string]*statistics.Statistics)
	for _, name := range strategyOf {
		stats[name] = &statistics.Statistics{}
	}

	total := state.TotalChips()
	for range s.config.Hands {
		if err := ctx.Err(); err != nil {
			return report, nil, err
		}
		if s.config.Rebuy {
			for i := range state.Players {
				if state.Players[i].Chips == 0 {
					state.Players[i].Chips = s.config.StartingChips
					total += s.config.StartingChips
					report.Rebuys++
				}
			}
		}

		before := make([]int, len(state.Players))
		for i, p := range state.Players {
			before[i] = p.Chips
		}

		state = game.StartHand(state, rng)
		if !state.InProgress && state.Result == nil {
			logger.Debug("Table broke up", "hands", report.Hands)
			break
		}
		if err := checkInvariants(state, total); err != nil {
			return report, nil, err
		}
		var rec *phh.Recorder
		if s.config.History {
			rec = phh.NewRecorder(state, fmt.Sprintf("%s-%d", report.ID, state.HandNumber), time.Time{})
		}

		for steps := 0; state.InProgress; steps++ {
			if steps >= maxActions {
				return report, nil, fmt.Errorf("%w: hand %d did not finish after %d actions", ErrInvariant, state.HandNumber, steps)
			}
			seat := state.CurrentPlayer
			action := agents[seat].Decide(state, seat)
			next, err := game.ApplyAction(state, action)
			if err != nil {
				logger.Warn("Bot chose an illegal action, folding", "player", state.Players[seat].ID, "action", action, "error", err)
				report.IllegalActions++
				next, err = game.ApplyAction(state, game.Action{Type: game.Fold})
				if err != nil {
					return report, nil, err
				}
			}
			state = next
			if rec != nil {
				rec.Record(state)
			}
			if err := checkInvariants(state, total); err != nil {
				return report, nil, err
			}
		}
		if rec != nil {
			report.Histories = append(report.Histories, rec.History())
		}

		s.recordHand(&report, stats, state, before, strategyOf)
	}

	report.Stacks = make(map[string]int, len(state.Players))
	for _, p := range state.Players {
		report.Stacks[p.ID] = p.Chips
	}
	logger.Debug("Table finished", "hands", report.Hands, "showdowns", report.Showdowns, "rebuys", report.Rebuys)
	return report, stats, nil
}

func (s *Simulator) recordHand(report *TableReport, stats map[string]*statistics.Statistics, state game.TableState, before []int, strategyOf []string) {
	result := state.Result
	report.Hands++
	report.Endings[state.Street]++
	if result.Showdown {
		report.Showdowns++
	} else {
		report.Walkovers++
	}

	pot := 0
	for _, award := range result.Awards {
		pot += award.Amount
	}
	report.LargestPot = max(report.LargestPot, pot)

	bb := float64(state.BigBlind)
	n := len(state.Players)
	for i, p := range state.Players {
		if p.Status == game.StatusOut {
			continue
		}
		stats[strategyOf[i]].Add(statistics.HandResult{
			NetBB:    float64(p.Chips-before[i]) / bb,
			Seed:     report.Seed,
			Hand:     state.HandNumber,
			Position: (i - state.Dealer + n) % n,
			Showdown: result.Contested(p.ID),
			PotBB:    float64(pot) / bb,
			Street:   state.Street,
		})
	}
}

// checkInvariants verifies chip conservation and that statuses agree with
// stacks.
func checkInvariants(s game.TableState, total int) error {
	if got := s.TotalChips(); got != total {
		return fmt.Errorf("%w: hand %d has %d chips, want %d", ErrInvariant, s.HandNumber, got, total)
	}
	for _, p := range s.Players {
		switch {
		case p.Chips < 0:
			return fmt.Errorf("%w: %s has negative stack %d", ErrInvariant, p.ID, p.Chips)
		case s.InProgress && p.Status == game.StatusActive && p.Chips == 0:
			return fmt.Errorf("%w: %s is active with no chips", ErrInvariant, p.ID)
		case s.InProgress && p.Status == game.StatusAllIn && p.Chips != 0:
			return fmt.Errorf("%w: %s is all-in holding %d chips", ErrInvariant, p.ID, p.Chips)
		}
	}
	if s.InProgress {
		cur, ok := s.Current()
		if !ok || cur.Status != game.StatusActive {
			return fmt.Errorf("%w: hand %d has no active player to act", ErrInvariant, s.HandNumber)
		}
	} else if s.PotTotal() != 0 {
		return fmt.Errorf("%w: hand %d finished with %d chips in the pot", ErrInvariant, s.HandNumber, s.PotTotal())
	}
	return nil
}
