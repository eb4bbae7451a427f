package game

import (
	"maps"
	"slices"

	"github.com/lox/nlhe/poker"
)

// Pot is one layer of the chips in the middle and the players who can win it.
type Pot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// PotAward records how one pot was distributed.
type PotAward struct {
	Pot
	Winners []string `json:"winners"`
	Payouts []int    `json:"payouts"` // aligned with Winners
}

// HandResult summarises the end of a hand.
type HandResult struct {
	HandNumber int  `json:"handNumber"`
	Showdown   bool `json:"showdown"`

	Awards []PotAward `json:"awards"`

	// Winnings is the total each winner collected across all pots.
	Winnings map[string]int `json:"winnings"`

	// Hands holds the evaluation of every seat that reached showdown.
	Hands map[string]poker.HandEvaluation `json:"hands,omitempty"`
}

func (r HandResult) clone() HandResult {
	c := r
	c.Awards = make([]PotAward, len(r.Awards))
	for i, a := range r.Awards {
		c.Awards[i] = PotAward{
			Pot:     Pot{Amount: a.Amount, Eligible: slices.Clone(a.Eligible)},
			Winners: slices.Clone(a.Winners),
			Payouts: slices.Clone(a.Payouts),
		}
	}
	c.Winnings = maps.Clone(r.Winnings)
	c.Hands = maps.Clone(r.Hands)
	return c
}

// Contested reports whether the player's hand was shown down.
func (r HandResult) Contested(id string) bool {
	_, ok := r.Hands[id]
	return ok
}

// BuildPots splits the commitment ledger into a main pot and side pots.
//
// Each layer takes the smallest remaining commitment from every contributor.
// Only contributors still in the hand are eligible for a layer. A layer that
// nobody live contributed to is folded into the previous pot (or the next
// one if there is no previous pot) so no chips are lost.
func BuildPots(players []Player, commitments map[string]int) []Pot {
	remaining := make(map[string]int, len(commitments))
	for id, v := range commitments {
		if v > 0 {
			remaining[id] = v
		}
	}

	var pots []Pot
	carry := 0
	for len(remaining) > 0 {
		layer := 0
		for _, v := range remaining {
			if layer == 0 || v < layer {
				layer = v
			}
		}

		var contributors, eligible []string
		for _, p := range players {
			if remaining[p.ID] == 0 {
				continue
			}
			contributors = append(contributors, p.ID)
			if p.Status.Live() {
				eligible = append(eligible, p.ID)
			}
		}
		// Ledger entries for ids not seated are ignored.
		if len(contributors) == 0 {
			break
		}

		amount := layer * len(contributors)
		for _, id := range contributors {
			remaining[id] -= layer
			if remaining[id] == 0 {
				delete(remaining, id)
			}
		}

		switch {
		case len(eligible) == 0 && len(pots) > 0:
			pots[len(pots)-1].Amount += amount
		case len(eligible) == 0:
			carry += amount
		default:
			pots = append(pots, Pot{Amount: amount + carry, Eligible: eligible})
			carry = 0
		}
	}
	if carry > 0 {
		pots = append(pots, Pot{Amount: carry})
	}
	return pots
}

// showdown evaluates every live hand and pays out each pot.
func (s *TableState) showdown() {
	s.Street = Showdown
	s.Pots = BuildPots(s.Players, s.Commitments)

	result := &HandResult{
		HandNumber: s.HandNumber,
		Showdown:   true,
		Winnings:   map[string]int{},
		Hands:      map[string]poker.HandEvaluation{},
	}
	seats := make(map[string]int, len(s.Players))
	for i, p := range s.Players {
		seats[p.ID] = i
		if p.Status.Live() {
			cards := make([]poker.Card, 0, 7)
			cards = append(cards, p.HoleCards...)
			cards = append(cards, s.Community...)
			result.Hands[p.ID] = poker.MustEvaluate(cards)
		}
	}

	for _, pot := range s.Pots {
		award := PotAward{Pot: Pot{Amount: pot.Amount, Eligible: slices.Clone(pot.Eligible)}}
		for _, id := range pot.Eligible {
			if len(award.Winners) == 0 {
				award.Winners = []string{id}
				continue
			}
			switch cmp := poker.Compare(result.Hands[id], result.Hands[award.Winners[0]]); {
			case cmp > 0:
				award.Winners = []string{id}
			case cmp == 0:
				award.Winners = append(award.Winners, id)
			}
		}
		if len(award.Winners) == 0 {
			continue
		}

		// Eligible is in seat order, so the first winner has the lowest seat.
		share := pot.Amount / len(award.Winners)
		odd := pot.Amount % len(award.Winners)
		award.Payouts = make([]int, len(award.Winners))
		for i, id := range award.Winners {
			amount := share
			if i == 0 {
				amount += odd
			}
			award.Payouts[i] = amount
			s.Players[seats[id]].Chips += amount
			result.Winnings[id] += amount
		}
		result.Awards = append(result.Awards, award)
	}

	s.finish(result)
}

// walkover gives the whole ledger to the last seat still in the hand.
func (s *TableState) walkover() {
	winner := nextSeat(s.Players, s.CurrentPlayer, isLive)
	total := s.PotTotal()
	p := &s.Players[winner]
	p.Chips += total

	pot := Pot{Amount: total, Eligible: []string{p.ID}}
	s.Pots = []Pot{pot}
	s.finish(&HandResult{
		HandNumber: s.HandNumber,
		Awards:     []PotAward{{Pot: pot, Winners: []string{p.ID}, Payouts: []int{total}}},
		Winnings:   map[string]int{p.ID: total},
	})
}

func (s *TableState) finish(result *HandResult) {
	s.Result = result
	s.Commitments = map[string]int{}
	s.CurrentPlayer = NoSeat
	s.InProgress = false
}
