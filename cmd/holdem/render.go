package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/nlhe/poker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0245E")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)
)

func renderCard(c poker.Card) string {
	if c.IsRed() {
		return redCardStyle.Render(c.Symbol())
	}
	return blackCardStyle.Render(c.Symbol())
}

func renderCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}

// signed styles a result by its sign.
func signed(v float64, text string) string {
	switch {
	case v > 0:
		return winStyle.Render(text)
	case v < 0:
		return lossStyle.Render(text)
	default:
		return text
	}
}

// parseHand accepts cards with or without separators, e.g. "AcKh",
// "Ac Kh" or "10h9h".
func parseHand(s string) ([]poker.Card, error) {
	var tokens []string
	runes := []rune(strings.NewReplacer(" ", "", ",", "", "\t", "").Replace(s))
	for i := 0; i < len(runes); {
		n := 2
		if runes[i] == '1' && i+1 < len(runes) && runes[i+1] == '0' {
			n = 3
		}
		end := min(i+n, len(runes))
		tokens = append(tokens, string(runes[i:end]))
		i = end
	}
	return poker.ParseCards(strings.Join(tokens, " "))
}

// checkDistinct rejects a card appearing in more than one place.
func checkDistinct(groups ...[]poker.Card) error {
	seen := make(map[poker.Card]bool)
	for _, g := range groups {
		for _, c := range g {
			if seen[c] {
				return fmt.Errorf("%w: duplicate card %s", poker.ErrInvalidInput, c)
			}
			seen[c] = true
		}
	}
	return nil
}
