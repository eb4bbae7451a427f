package game

import (
	"github.com/lox/nlhe/poker"
)

// HandOption configures a single call to StartHand.
type HandOption func(*handConfig)

type handConfig struct {
	deck poker.Deck // overrides the shuffle when set
}

// WithDeck deals from the given deck instead of shuffling a new one.
// Cards are drawn from the end of the deck, see poker.StackedDeck.
func WithDeck(deck poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck.Clone()
	}
}
