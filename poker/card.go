// Package poker provides the playing-card model, deck construction and the
// best-of-seven hand evaluator used by the Hold'em engine.
package poker

import (
	"errors"
	"fmt"
	"strings"
)

// Rank is a card rank valued 2 (deuce) through 14 (ace).
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit is one of the four card suits.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "shdc"
)

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

// ErrInvalidCard is returned when a card string cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// Card is an immutable (rank, suit) pair. Cards compare with ==.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from a rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card has a real rank and suit.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Clubs
}

// String returns the two character form, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(rankChars[c.Rank-Two]) + string(suitChars[c.Suit])
}

// Symbol returns the display form using suit glyphs, e.g. "A♠".
func (c Card) Symbol() string {
	if !c.Valid() {
		return "??"
	}
	return string(rankChars[c.Rank-Two]) + suitSymbols[c.Suit]
}

// IsRed reports whether the card is a heart or a diamond.
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// MarshalText encodes the card in its two character form.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card from its two character form.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses strings such as "As", "td", "10h" or "A♠".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	ri := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if ri < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	suit := s[1:]
	si := strings.Index(suitChars, strings.ToLower(suit))
	if len(suit) != 1 || si < 0 {
		si = -1
		for i, sym := range suitSymbols {
			if suit == sym {
				si = i
				break
			}
		}
	}
	if si < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	return Card{Rank: Rank(ri) + Two, Suit: Suit(si)}, nil
}

// ParseCards parses a whitespace or comma separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals in tests and examples; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards using their two character form.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
