package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(state game.TableState, seat int) game.Action {
	opts, ok := turn(state, seat)
	if !ok {
		return game.Action{Type: game.Fold}
	}

	var types []game.ActionType
	for _, t := range []game.ActionType{game.Fold, game.Check, game.Call, game.Bet, game.Raise, game.AllIn} {
		if opts.Allows(t) {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return decide(opts, game.Fold, 0)
	}

	var a game.Action
	switch t := types[r.rng.IntN(len(types))]; t {
	case game.Bet:
		a = decide(opts, t, between(r.rng, opts.MinBet, opts.MaxTotal))
	case game.Raise:
		a = decide(opts, t, between(r.rng, opts.MinRaiseTo, opts.MaxTotal))
	default:
		a = decide(opts, t, 0)
	}
	r.logger.Debug("Bot decision", "bot", "random", "player", opts.PlayerID, "action", a)
	return a
}
