package phh

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/poker"
)

// Recorder builds a HandHistory from the successive states of one hand.
type Recorder struct {
	hand   *HandHistory
	number map[int]int // seat index to player number, 1-based
	order  []int       // seat indexes in player order
	board  int         // community cards already written
	last   game.TableState
}

// NewRecorder starts recording from the state returned by game.StartHand.
// A zero at leaves the time fields empty.
func NewRecorder(start game.TableState, handID string, at time.Time) *Recorder {
	r := &Recorder{
		number: make(map[int]int),
		last:   start,
		hand: &HandHistory{
			Variant:   Variant,
			Table:     start.ID,
			SeatCount: len(start.Players),
			MinBet:    start.BigBlind,
			HandID:    handID,
		},
	}
	if !at.IsZero() {
		at = at.UTC()
		r.hand.Time = at.Format(time.TimeOnly)
		r.hand.TimeZone = "UTC"
		r.hand.Day = at.Day()
		r.hand.Month = int(at.Month())
		r.hand.Year = at.Year()
	}

	n := len(start.Players)
	for i := range n {
		seat := (start.Dealer + 1 + i) % n
		p := start.Players[seat]
		if p.Status == game.StatusOut {
			continue
		}
		r.order = append(r.order, seat)
		r.number[seat] = len(r.order)

		stack := p.Chips + p.TotalCommitted
		if start.Result != nil {
			stack -= start.Result.Winnings[p.ID]
		}
		r.hand.Seats = append(r.hand.Seats, seat+1)
		r.hand.Players = append(r.hand.Players, p.Name)
		r.hand.Antes = append(r.hand.Antes, 0)
		r.hand.BlindsOrStraddles = append(r.hand.BlindsOrStraddles, p.TotalCommitted)
		r.hand.StartingStacks = append(r.hand.StartingStacks, stack)
	}

	for _, seat := range r.order {
		r.add("d dh p%d %s", r.number[seat], cards(start.Players[seat].HoleCards))
	}
	r.street(start)
	return r
}

// Record logs the action that led from the previous state to next.
func (r *Recorder) Record(next game.TableState) {
	prev := r.last
	r.last = next

	actor := prev.CurrentPlayer
	if actor >= 0 && actor < len(prev.Players) {
		before, after := prev.Players[actor], next.Players[actor]
		total := before.CurrentBet + after.TotalCommitted - before.TotalCommitted
		switch {
		case after.Status == game.StatusFolded && before.Status != game.StatusFolded:
			r.add("p%d f", r.number[actor])
		case total > prev.CurrentBet:
			r.add("p%d cbr %d", r.number[actor], total)
		default:
			r.add("p%d cc", r.number[actor])
		}
	}
	r.street(next)
}

// street writes newly dealt board cards and, once the hand is over, the
// hands shown down.
func (r *Recorder) street(s game.TableState) {
	for r.board < len(s.Community) {
		n := 1
		if r.board == 0 {
			n = 3
		}
		n = min(n, len(s.Community)-r.board)
		r.add("d db %s", cards(s.Community[r.board:r.board+n]))
		r.board += n
	}
	if s.Result != nil && s.Result.Showdown {
		for _, seat := range r.order {
			p := s.Players[seat]
			if s.Result.Contested(p.ID) {
				r.add("p%d sm %s", r.number[seat], cards(p.HoleCards))
			}
		}
	}
}

func (r *Recorder) add(format string, args ...any) {
	r.hand.Actions = append(r.hand.Actions, fmt.Sprintf(format, args...))
}

// Done reports whether the recorded hand has finished.
func (r *Recorder) Done() bool {
	return !r.last.InProgress
}

// History returns the hand so far. Finishing stacks and winnings are
// filled in once the hand is over.
func (r *Recorder) History() *HandHistory {
	h := *r.hand
	h.Actions = append([]string(nil), r.hand.Actions...)
	if r.Done() && r.last.Result != nil {
		h.FinishingStacks = make([]int, len(r.order))
		h.Winnings = make([]int, len(r.order))
		for i, seat := range r.order {
			p := r.last.Players[seat]
			h.FinishingStacks[i] = p.Chips
			h.Winnings[i] = r.last.Result.Winnings[p.ID]
		}
	}
	return &h
}

// cards joins cards without separators, e.g. "AhKh".
func cards(cs []poker.Card) string {
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(c.String())
	}
	return b.String()
}
