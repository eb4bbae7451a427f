package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/nlhe/internal/fileutil"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/phh"
	"github.com/lox/nlhe/internal/randutil"
	"github.com/lox/nlhe/internal/simulator"
)

// SimulateCmd plays bot-only tables and prints per-strategy results.
type SimulateCmd struct {
	Tables      int      `short:"t" default:"4" help:"Number of tables"`
	Hands       int      `short:"n" default:"1000" help:"Hands per table"`
	Players     int      `short:"p" default:"6" help:"Seats per table"`
	Strategies  []string `short:"s" help:"Bot strategies assigned to seats in turn (default: all)"`
	Chips       int      `default:"200" help:"Starting stack"`
	SmallBlind  int      `default:"1" help:"Small blind"`
	BigBlind    int      `default:"2" help:"Big blind"`
	NoRebuy     bool     `help:"Let busted seats stay out instead of refilling them"`
	Parallelism int      `default:"0" help:"Tables to run at once (0 for no limit)"`
	Seed        *int64   `help:"Random seed for reproducible results"`
	Report      string   `type:"path" help:"Write the full report as JSON to this file"`
	History     string   `type:"path" help:"Write every hand in PHH format to this file"`
}

func (c *SimulateCmd) Run(logger *log.Logger) error {
	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	sim, err := simulator.New(simulator.Config{
		Tables:        c.Tables,
		Hands:         c.Hands,
		Players:       c.Players,
		Strategies:    c.Strategies,
		StartingChips: c.Chips,
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		Rebuy:         !c.NoRebuy,
		Seed:          seed,
		Parallelism:   c.Parallelism,
		History:       c.History != "",
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation", "tables", c.Tables, "hands", c.Hands, "players", c.Players, "seed", seed)
	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ Simulation results ♦ ♣ "))
	fmt.Println()
	printSummary(report, time.Since(start))

	if c.Report != "" {
		if err := fileutil.WriteJSON(c.Report, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("Wrote report", "path", c.Report)
	}
	if c.History != "" {
		var hands []*phh.HandHistory
		for _, t := range report.Tables {
			hands = append(hands, t.Histories...)
		}
		err := fileutil.WriteAtomic(c.History, 0o644, func(w io.Writer) error {
			return phh.EncodeAll(w, hands)
		})
		if err != nil {
			return fmt.Errorf("write history: %w", err)
		}
		logger.Info("Wrote hand histories", "path", c.History, "hands", len(hands))
	}
	return nil
}

func printSummary(report *simulator.Report, duration time.Duration) {
	var showdowns, walkovers, largest, rebuys, illegal int
	endings := make(map[game.Street]int)
	for _, t := range report.Tables {
		showdowns += t.Showdowns
		walkovers += t.Walkovers
		largest = max(largest, t.LargestPot)
		rebuys += t.Rebuys
		illegal += t.IllegalActions
		for street, n := range t.Endings {
			endings[street] += n
		}
	}
	hands := report.Hands()

	fmt.Printf("%s %d over %d tables in %v\n", headerStyle.Render("hands"), hands, len(report.Tables), duration.Truncate(time.Millisecond))
	fmt.Printf("%s %d (%.1f%%)   %s %d (%.1f%%)\n",
		headerStyle.Render("showdowns"), showdowns, percent(showdowns, hands),
		headerStyle.Render("walkovers"), walkovers, percent(walkovers, hands))
	fmt.Printf("%s %d chips   %s %d   %s %d\n",
		headerStyle.Render("largest pot"), largest,
		headerStyle.Render("rebuys"), rebuys,
		headerStyle.Render("illegal actions"), illegal)

	var streets []string
	for street := game.Preflop; street <= game.Showdown; street++ {
		if n := endings[street]; n > 0 {
			streets = append(streets, fmt.Sprintf("%s %d", street, n))
		}
	}
	fmt.Printf("%s %s\n\n", headerStyle.Render("ended on"), strings.Join(streets, ", "))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("strategy"),
		headerStyle.Render("hands"),
		headerStyle.Render("bb/100"),
		headerStyle.Render("95% CI"),
		headerStyle.Render("showdown bb"),
		headerStyle.Render("non-showdown bb"))

	names := report.StrategyNames()
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(report.Strategies[b].Mean(), report.Strategies[a].Mean())
	})
	for _, name := range names {
		st := report.Strategies[name]
		low, high := st.ConfidenceInterval95()
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t[%.1f, %.1f]\t%.1f\t%.1f\n",
			handStyle.Render(name),
			st.Hands,
			signed(st.Mean(), fmt.Sprintf("%+.2f", st.BBPer100())),
			low*100, high*100,
			st.ShowdownBB,
			st.NonShowdownBB)
	}
	_ = w.Flush()
}
