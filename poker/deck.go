package poker

import (
	rand "math/rand/v2"
	"slices"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is a draw stack; cards are drawn from the end of the slice.
type Deck []Card

// OrderedDeck returns all 52 cards, suit by suit, deuce to ace.
func OrderedDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d = append(d, Card{Rank: rank, Suit: suit})
		}
	}
	return d
}

// ShuffledDeck returns a uniformly shuffled deck using Fisher-Yates.
func ShuffledDeck(rng *rand.Rand) Deck {
	if rng == nil {
		panic("rng is required to shuffle a deck")
	}
	d := OrderedDeck()
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
	return d
}

// StackedDeck returns a deck whose next draws are exactly top, in order,
// followed by every remaining card. It panics if top repeats a card.
func StackedDeck(top ...Card) Deck {
	seen := make(map[Card]bool, len(top))
	for _, c := range top {
		if !c.Valid() || seen[c] {
			panic("stacked deck: invalid or duplicate card " + c.String())
		}
		seen[c] = true
	}

	d := make(Deck, 0, DeckSize)
	for _, c := range OrderedDeck() {
		if !seen[c] {
			d = append(d, c)
		}
	}
	for i := len(top) - 1; i >= 0; i-- {
		d = append(d, top[i])
	}
	return d
}

// Draw removes and returns the top card. Drawing from an empty deck is a
// programming error and panics.
func (d *Deck) Draw() Card {
	n := len(*d)
	if n == 0 {
		panic("draw from empty deck")
	}
	c := (*d)[n-1]
	*d = (*d)[:n-1]
	return c
}

// DrawN draws n cards in draw order.
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Draw()
	}
	return cards
}

// Len returns the number of cards left.
func (d Deck) Len() int {
	return len(d)
}

// Clone returns an independent copy of the deck.
func (d Deck) Clone() Deck {
	return slices.Clone(d)
}
