package game

import (
	"fmt"
	"slices"

	"github.com/lox/nlhe/poker"
)

// Status is a seat's standing in the current hand.
type Status int

const (
	StatusActive Status = iota // in the hand and able to act
	StatusFolded               // gave up the hand
	StatusAllIn                // in the hand with no chips behind
	StatusOut                  // not dealt in (no chips)
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusOut:
		return "out"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Live reports whether a seat still contests the pot.
func (s Status) Live() bool {
	switch s {
	case StatusActive, StatusAllIn:
		return true
	case StatusFolded, StatusOut:
		return false
	default:
		panic(fmt.Sprintf("unknown status %d", int(s)))
	}
}

// Player is one seat at the table.
type Player struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Seat           int          `json:"seat"`
	Chips          int          `json:"chips"`
	HoleCards      []poker.Card `json:"holeCards,omitempty"`
	Status         Status       `json:"status"`
	CurrentBet     int          `json:"currentBet"`     // wagered this betting round
	TotalCommitted int          `json:"totalCommitted"` // wagered this hand
}

// CanAct reports whether the seat may take an action.
func (p Player) CanAct() bool {
	return p.Status == StatusActive
}

func (p Player) clone() Player {
	p.HoleCards = slices.Clone(p.HoleCards)
	return p
}
