// Package statistics accumulates per-player results over many simulated
// hands, measured in big blinds.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/nlhe/internal/game"
)

// BigPotBB is the pot size, in big blinds, counted as a big pot.
const BigPotBB = 50

// HandResult is one player's outcome in one hand.
type HandResult struct {
	NetBB    float64     // Chips won or lost, in big blinds
	Seed     int64       // Table seed, for replay
	Hand     int         // Hand number at the table
	Position int         // Seats after the button, 0 is the button
	Showdown bool        // Player contested a showdown
	PotBB    float64     // Total awarded, in big blinds
	Street   game.Street // Street the hand ended on
}

// PositionStats tracks results for one position relative to the button.
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics summarises the results of one player or strategy.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Every result, for median and percentiles

	ShowdownWins    int     // Hands won at showdown
	NonShowdownWins int     // Hands won without a showdown
	ShowdownBB      float64 // Net from showdowns, wins and losses
	NonShowdownBB   float64 // Net from everything else
	AllBB           float64 // Total for the ledger check

	PositionResults [game.MaxSeats]PositionStats

	MaxPotBB  float64
	BigPots   int     // Pots of at least BigPotBB
	BigPotsBB float64 // Net from big pots
}

// Mean returns the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BBPer100 returns the win rate in big blinds per hundred hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add records one hand.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)
	s.AllBB += netBB

	if result.Showdown {
		s.ShowdownBB += netBB
		if netBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += netBB
		if netBB > 0 {
			s.NonShowdownWins++
		}
	}

	if pos := result.Position; pos >= 0 && pos < len(s.PositionResults) {
		s.PositionResults[pos].Hands++
		s.PositionResults[pos].SumBB += netBB
		s.PositionResults[pos].SumBB2 += netBB * netBB
	}

	s.MaxPotBB = max(s.MaxPotBB, result.PotBB)
	if result.PotBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	for i, ps := range other.PositionResults {
		s.PositionResults[i].Hands += ps.Hands
		s.PositionResults[i].SumBB += ps.SumBB
		s.PositionResults[i].SumBB2 += ps.SumBB2
	}
	s.MaxPotBB = max(s.MaxPotBB, other.MaxPotBB)
	s.BigPots += other.BigPots
	s.BigPotsBB += other.BigPotsBB
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at p, between 0 and 1, interpolating
// between neighbouring results.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result for a position, 0 being the button.
func (s *Statistics) PositionMean(position int) float64 {
	if position < 0 || position >= len(s.PositionResults) {
		return 0
	}
	ps := s.PositionResults[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}

	positionHands := 0
	for _, ps := range s.PositionResults {
		positionHands += ps.Hands
	}
	if positionHands != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)",
			positionHands, s.Hands)
	}
	return nil
}
