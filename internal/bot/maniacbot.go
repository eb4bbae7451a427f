package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) Decide(state game.TableState, seat int) game.Action {
	opts, ok := turn(state, seat)
	if !ok {
		return game.Action{Type: game.Fold}
	}
	a := m.choose(opts, state)
	m.logger.Debug("Bot decision", "bot", "maniac", "player", opts.PlayerID, "action", a)
	return a
}

func (m *ManiacBot) choose(opts game.Options, state game.TableState) game.Action {
	short := opts.MaxTotal <= 20*state.BigBlind

	if opts.CanCheck {
		// Prefers to bet when checked to.
		if m.rng.Float64() >= 0.85 {
			return decide(opts, game.Check, 0)
		}
		switch {
		case short || m.rng.Float64() < 0.3:
			return decide(opts, game.AllIn, 0)
		case opts.CanBet:
			return decide(opts, game.Bet, opts.MinBet+(opts.MaxTotal-opts.MinBet)*3/4)
		case opts.CanRaise:
			return decide(opts, game.Raise, opts.MinRaiseTo+(opts.MaxTotal-opts.MinRaiseTo)*3/4)
		}
		return decide(opts, game.Check, 0)
	}

	// Facing a bet.
	r := m.rng.Float64()
	switch {
	case r < 0.4 && opts.CanAllIn:
		return decide(opts, game.AllIn, 0)
	case r < 0.8 && opts.CanCall:
		return decide(opts, game.Call, 0)
	}
	return decide(opts, game.Fold, 0)
}
