package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/randutil"
	"github.com/lox/nlhe/poker"
)

// OddsCmd estimates how often each hand wins once the board is complete.
type OddsCmd struct {
	Hands         []string `arg:"" help:"Two card hands, e.g. 'AcKd' 'QhJs'"`
	Board         string   `short:"b" help:"Known community cards, e.g. 'Td7s8h'"`
	Possibilities bool     `short:"p" help:"Show how often each hand makes each category"`
	Iterations    int      `short:"i" help:"Number of Monte Carlo iterations" default:"100000"`
	Seed          *int64   `help:"Random seed for reproducible results"`
}

type equity struct {
	Hand          []poker.Card
	Wins          int
	Ties          int
	Total         int
	Possibilities map[poker.Category]int
}

func (c *OddsCmd) Run(logger *log.Logger) error {
	if len(c.Hands) < 2 {
		return fmt.Errorf("need at least two hands, got %d", len(c.Hands))
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive")
	}

	hands := make([][]poker.Card, len(c.Hands))
	for i, h := range c.Hands {
		hand, err := parseHand(h)
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != 2 {
			return fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
		hands[i] = hand
	}
	board, err := parseHand(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(board) > 5 {
		return fmt.Errorf("board cannot have more than 5 cards, got %d", len(board))
	}
	if need := 2*len(hands) + 5; need > 52 {
		return fmt.Errorf("%d hands need %d cards, the deck has 52", len(hands), need)
	}
	if err := checkDistinct(append(hands, board)...); err != nil {
		return err
	}

	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Debug("Running equity simulation", "hands", len(hands), "iterations", c.Iterations, "seed", seed)

	start := time.Now()
	results := simulateEquity(hands, board, c.Iterations, randutil.New(seed))
	displayEquity(results, board, c.Possibilities, c.Iterations, time.Since(start))
	return nil
}

// simulateEquity deals random completions of the board and counts outright
// wins and split pots for each hand.
func simulateEquity(hands [][]poker.Card, board []poker.Card, iterations int, rng *rand.Rand) []equity {
	results := make([]equity, len(hands))
	used := make(map[poker.Card]bool)
	for _, c := range board {
		used[c] = true
	}
	for i, h := range hands {
		results[i] = equity{Hand: h, Total: iterations, Possibilities: make(map[poker.Category]int)}
		for _, c := range h {
			used[c] = true
		}
	}

	var stub []poker.Card
	for _, c := range poker.OrderedDeck() {
		if !used[c] {
			stub = append(stub, c)
		}
	}

	need := 5 - len(board)
	full := make([]poker.Card, 5)
	copy(full, board)
	seven := make([]poker.Card, 7)
	evals := make([]poker.HandEvaluation, len(hands))

	for range iterations {
		// Partial Fisher-Yates: the first need cards of stub are a uniform draw.
		for i := range need {
			j := i + rng.IntN(len(stub)-i)
			stub[i], stub[j] = stub[j], stub[i]
		}
		copy(full[len(board):], stub[:need])

		best := 0
		for i, h := range hands {
			copy(seven, h)
			copy(seven[2:], full)
			evals[i] = poker.MustEvaluate(seven)
			results[i].Possibilities[evals[i].Category]++
			if i > 0 && poker.Compare(evals[i], evals[best]) > 0 {
				best = i
			}
		}

		winners := 0
		for i := range hands {
			if poker.Compare(evals[i], evals[best]) == 0 {
				winners++
			}
		}
		for i := range hands {
			if poker.Compare(evals[i], evals[best]) != 0 {
				continue
			}
			if winners == 1 {
				results[i].Wins++
			} else {
				results[i].Ties++
			}
		}
	}
	return results
}

func displayEquity(results []equity, board []poker.Card, showPossibilities bool, iterations int, duration time.Duration) {
	if len(board) > 0 {
		fmt.Println(headerStyle.Render("board"))
		fmt.Printf("%s\n\n", renderCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"))
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			renderCards(r.Hand),
			winStyle.Render(fmt.Sprintf("%.1f%%", percent(r.Wins, r.Total))),
			tieStyle.Render(fmt.Sprintf("%.1f%%", percent(r.Ties, r.Total))))
	}
	_ = w.Flush()

	if showPossibilities {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprint(w, categoryStyle.Render("hand"))
		for _, r := range results {
			_, _ = fmt.Fprintf(w, "\t%s", handStyle.Render(poker.FormatCards(r.Hand)))
		}
		_, _ = fmt.Fprintln(w)
		for cat := poker.RoyalFlush; ; cat-- {
			_, _ = fmt.Fprint(w, categoryStyle.Render(cat.String()))
			for _, r := range results {
				cell := "."
				if n := r.Possibilities[cat]; n > 0 {
					cell = fmt.Sprintf("%.1f%%", percent(n, r.Total))
				}
				_, _ = fmt.Fprintf(w, "\t%s", cell)
			}
			_, _ = fmt.Fprintln(w)
			if cat == poker.HighCard {
				break
			}
		}
		_ = w.Flush()
	}

	fmt.Printf("\n%d iterations in %v\n", iterations, duration.Truncate(time.Millisecond))
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
