package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return fmt.Sprintf("street(%d)", int(s))
	}
}

// MarshalText encodes the street name.
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// communityCount is the number of board cards visible on a street.
func (s Street) communityCount() int {
	switch s {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown:
		return 5
	default:
		panic(fmt.Sprintf("unknown street %d", int(s)))
	}
}

// ActionType is the kind of a player action
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText encodes the action name.
func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the names produced by String plus a few aliases.
func (a *ActionType) UnmarshalText(text []byte) error {
	t, err := ParseActionType(string(text))
	if err != nil {
		return err
	}
	*a = t
	return nil
}

// ParseActionType converts a wire or CLI name into an ActionType.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return Fold, nil
	case "check", "k":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "bet", "b":
		return Bet, nil
	case "raise", "r":
		return Raise, nil
	case "allin", "all-in", "all_in", "a":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
	}
}

// Action is a decision submitted for the current actor.
//
// Amount is the bet size for Bet and the total to raise to for Raise; it is
// ignored for the other types. PlayerID is optional: when set, the action is
// rejected unless that player is the one to act.
type Action struct {
	Type     ActionType `json:"action"`
	Amount   int        `json:"amount,omitempty"`
	PlayerID string     `json:"playerId,omitempty"`
}

// String returns a short label for logs and renderers, e.g. "raise 40".
func (a Action) String() string {
	switch a.Type {
	case Bet, Raise:
		return fmt.Sprintf("%s %d", a.Type, a.Amount)
	case AllIn:
		return "all-in"
	default:
		return a.Type.String()
	}
}
