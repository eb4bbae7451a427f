package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/game"
)

// CallBot checks when it can, calls any bet it can cover and folds to bets
// larger than its stack.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(state game.TableState, seat int) game.Action {
	opts, ok := turn(state, seat)
	if !ok {
		return game.Action{Type: game.Fold}
	}

	p := state.Players[seat]
	toCall := state.CurrentBet - p.CurrentBet

	var a game.Action
	switch {
	case opts.CanCheck:
		a = decide(opts, game.Check, 0)
	case opts.CanCall && toCall <= p.Chips:
		a = decide(opts, game.Call, 0)
	default:
		a = decide(opts, game.Fold, 0)
	}
	c.logger.Debug("Bot decision", "bot", "caller", "player", p.ID, "action", a, "toCall", toCall)
	return a
}
