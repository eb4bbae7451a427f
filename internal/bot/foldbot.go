package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/game"
)

// FoldBot is a simple bot that always folds (or checks when possible)
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) Decide(state game.TableState, seat int) game.Action {
	opts, ok := turn(state, seat)
	if !ok {
		return game.Action{Type: game.Fold}
	}
	a := passive(opts)
	f.logger.Debug("Bot decision", "bot", "fold", "player", opts.PlayerID, "action", a)
	return a
}
