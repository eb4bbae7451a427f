// Package bot provides computer players that choose actions from a table
// snapshot.
package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/game"
)

// ErrUnknownStrategy is returned by New for an unrecognised strategy name.
var ErrUnknownStrategy = errors.New("unknown bot strategy")

// Agent decides the action for a seat when it is that seat's turn.
type Agent interface {
	Decide(state game.TableState, seat int) game.Action
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(state game.TableState, seat int) game.Action

func (f AgentFunc) Decide(state game.TableState, seat int) game.Action {
	return f(state, seat)
}

var strategies = map[string]func(rng *rand.Rand, logger *log.Logger) Agent{
	"caller": func(_ *rand.Rand, logger *log.Logger) Agent { return NewCallBot(logger) },
	"fold":   func(_ *rand.Rand, logger *log.Logger) Agent { return NewFoldBot(logger) },
	"random": func(rng *rand.Rand, logger *log.Logger) Agent { return NewRandBot(rng, logger) },
	"tag":    func(rng *rand.Rand, logger *log.Logger) Agent { return NewTAGBot(rng, logger) },
	"maniac": func(rng *rand.Rand, logger *log.Logger) Agent { return NewManiacBot(rng, logger) },
}

// Strategies lists the names accepted by New.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds an agent by strategy name.
func New(strategy string, rng *rand.Rand, logger *log.Logger) (Agent, error) {
	build, ok := strategies[strings.ToLower(strategy)]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownStrategy, strategy, strings.Join(Strategies(), ", "))
	}
	return build(rng, logger), nil
}

// turn returns the legal options for seat, or false when it is not that
// seat's turn.
func turn(state game.TableState, seat int) (game.Options, bool) {
	opts := game.LegalActions(state)
	return opts, opts.Seat != game.NoSeat && opts.Seat == seat
}

func decide(opts game.Options, t game.ActionType, amount int) game.Action {
	return game.Action{Type: t, Amount: amount, PlayerID: opts.PlayerID}
}

// passive checks when free and folds otherwise.
func passive(opts game.Options) game.Action {
	if opts.CanCheck {
		return decide(opts, game.Check, 0)
	}
	return decide(opts, game.Fold, 0)
}

// between picks a uniform amount in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
