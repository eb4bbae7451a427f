package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/poker"
)

// TAGBot is a Tight Aggressive bot that plays premium hands aggressively
type TAGBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng *rand.Rand, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: rng, logger: logger}
}

func (t *TAGBot) Decide(state game.TableState, seat int) game.Action {
	opts, ok := turn(state, seat)
	if !ok {
		return game.Action{Type: game.Fold}
	}
	p := state.Players[seat]

	var a game.Action
	var reason string
	if state.Street == game.Preflop {
		a, reason = t.preflop(opts, state, poker.CategorizeHoleCards(p.HoleCards))
	} else {
		a, reason = t.postflop(opts, state, p)
	}
	t.logger.Debug("Bot decision", "bot", "tag", "player", p.ID, "action", a, "reason", reason)
	return a
}

func (t *TAGBot) preflop(opts game.Options, state game.TableState, cat poker.HoleCardCategory) (game.Action, string) {
	switch cat {
	case poker.CategoryPremium:
		if opts.CanRaise {
			// Three times the bet in front.
			return decide(opts, game.Raise, min(opts.MaxTotal, max(opts.MinRaiseTo, 3*state.CurrentBet))), "raise premium"
		}
		return decide(opts, game.AllIn, 0), "shove premium"
	case poker.CategoryStrong:
		if opts.CanCall && opts.CallAmount <= 4*state.BigBlind {
			return decide(opts, game.Call, 0), "call strong"
		}
	case poker.CategoryMedium:
		if opts.CanCall && opts.CallAmount <= state.BigBlind && t.rng.Float64() < 0.5 {
			return decide(opts, game.Call, 0), "limp medium"
		}
	}
	return passive(opts), "fold " + string(cat)
}

func (t *TAGBot) postflop(opts game.Options, state game.TableState, p game.Player) (game.Action, string) {
	cards := append(append([]poker.Card{}, p.HoleCards...), state.Community...)
	eval, err := poker.EvaluateBest(cards)
	if err != nil {
		return passive(opts), "no hand"
	}

	pot := state.PotTotal()
	switch {
	case eval.Category >= poker.TwoPair:
		if opts.CanBet {
			return decide(opts, game.Bet, min(opts.MaxTotal, max(opts.MinBet, pot*2/3))), "value bet " + eval.Category.String()
		}
		if opts.CanRaise {
			return decide(opts, game.Raise, opts.MinRaiseTo), "raise " + eval.Category.String()
		}
		if opts.CanCall {
			return decide(opts, game.Call, 0), "call " + eval.Category.String()
		}
	case eval.Category == poker.OnePair:
		if opts.CanCall && opts.CallAmount*2 <= pot {
			return decide(opts, game.Call, 0), "pot odds with a pair"
		}
	}
	return passive(opts), "give up " + eval.Category.String()
}
