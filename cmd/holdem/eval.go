package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/poker"
)

// EvalCmd ranks hands against a shared board.
type EvalCmd struct {
	Hands []string `arg:"" help:"Hole cards or full hands, e.g. 'AcKd' 'QhJs'"`
	Board string   `short:"b" help:"Community cards, e.g. 'Td7s8h2c3d'"`
}

type evaluatedHand struct {
	hole []poker.Card
	eval poker.HandEvaluation
}

func (c *EvalCmd) Run(logger *log.Logger) error {
	board, err := parseHand(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(board) > 5 {
		return fmt.Errorf("board cannot have more than 5 cards, got %d", len(board))
	}

	results, err := evaluateHands(c.Hands, board)
	if err != nil {
		return err
	}
	logger.Debug("Evaluated hands", "hands", len(results), "board", poker.FormatCards(board))

	if len(board) > 0 {
		fmt.Println(headerStyle.Render("board"))
		fmt.Printf("%s\n\n", renderCards(board))
	}

	best := results[0].eval
	for _, r := range results[1:] {
		if poker.Compare(r.eval, best) > 0 {
			best = r.eval
		}
	}
	winners := 0
	for _, r := range results {
		if poker.Compare(r.eval, best) == 0 {
			winners++
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("category"),
		headerStyle.Render("best five"),
		headerStyle.Render("result"))
	for _, r := range results {
		outcome := ""
		if poker.Compare(r.eval, best) == 0 {
			outcome = winStyle.Render("wins")
			if winners > 1 {
				outcome = tieStyle.Render("splits")
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			handStyle.Render(poker.FormatCards(r.hole)),
			categoryStyle.Render(r.eval.Category.String()),
			renderCards(r.eval.Best[:]),
			outcome)
	}
	return w.Flush()
}

func evaluateHands(hands []string, board []poker.Card) ([]evaluatedHand, error) {
	groups := [][]poker.Card{board}
	results := make([]evaluatedHand, 0, len(hands))
	for i, h := range hands {
		hole, err := parseHand(h)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		groups = append(groups, hole)
		eval, err := poker.EvaluateBest(append(append([]poker.Card{}, hole...), board...))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		results = append(results, evaluatedHand{hole: hole, eval: eval})
	}
	if err := checkDistinct(groups...); err != nil {
		return nil, err
	}
	return results, nil
}
