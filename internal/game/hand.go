package game

import (
	"math/rand/v2"

	"github.com/lox/nlhe/poker"
)

// StartHand rotates the button, posts blinds and deals hole cards. The rng
// shuffles the deck unless WithDeck is given.
//
// When fewer than two seats have chips the returned state has InProgress
// set to false and nothing is dealt.
func StartHand(s TableState, rng *rand.Rand, opts ...HandOption) TableState {
	var cfg handConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	next := s.Clone()
	for i := range next.Players {
		p := &next.Players[i]
		p.HoleCards = nil
		p.CurrentBet = 0
		p.TotalCommitted = 0
		if p.Chips > 0 {
			p.Status = StatusActive
		} else {
			p.Status = StatusOut
		}
	}
	next.Community = []poker.Card{}
	next.Pots = nil
	next.Commitments = map[string]int{}
	next.Result = nil
	next.Street = Preflop
	next.CurrentBet = 0
	next.LastAggressor = NoSeat
	next.LastRaiseSize = next.BigBlind
	next.CurrentPlayer = NoSeat
	next.RoundStart = NoSeat
	next.InProgress = false

	if countSeats(next.Players, isSeated) < 2 {
		return next
	}

	next.Dealer = nextSeat(next.Players, next.Dealer, isSeated)
	if cfg.deck != nil {
		next.Deck = cfg.deck
	} else {
		next.Deck = poker.ShuffledDeck(rng)
	}
	next.HandNumber++
	next.InProgress = true

	sb := nextSeat(next.Players, next.Dealer, isActive)
	bb := nextSeat(next.Players, sb, isActive)
	next.pay(sb, next.SmallBlind)
	next.pay(bb, next.BigBlind)
	next.CurrentBet = next.BigBlind
	next.LastAggressor = bb

	for range 2 {
		for i := range len(next.Players) {
			idx := (next.Dealer + 1 + i) % len(next.Players)
			p := &next.Players[idx]
			if p.Status.Live() {
				p.HoleCards = append(p.HoleCards, next.Deck.Draw())
			}
		}
	}

	first := nextSeat(next.Players, bb, isActive)
	if first == NoSeat {
		// Both blinds were all-in and nobody else can act.
		next.runOut()
		return next
	}
	next.CurrentPlayer = first
	next.RoundStart = first
	return next
}

// ApplyAction validates and applies an action for the current actor. On
// rejection it returns the input state unchanged and an error wrapping
// ErrIllegalAction.
func ApplyAction(s TableState, a Action) (TableState, error) {
	if !s.InProgress {
		return s, illegal("no hand in progress")
	}
	if s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return s, illegal("no player to act")
	}
	actor := s.Players[s.CurrentPlayer]
	if a.PlayerID != "" && a.PlayerID != actor.ID {
		return s, illegal("out of turn: %s to act, not %s", actor.ID, a.PlayerID)
	}
	if !actor.CanAct() {
		return s, illegal("%s cannot act while %s", actor.ID, actor.Status)
	}

	next := s.Clone()
	idx := next.CurrentPlayer
	p := &next.Players[idx]
	toCall := next.CurrentBet - p.CurrentBet
	minTotal := next.CurrentBet + next.LastRaiseSize

	switch a.Type {
	case Fold:
		p.Status = StatusFolded

	case Check:
		if p.CurrentBet != next.CurrentBet {
			return s, illegal("cannot check facing %d to call", toCall)
		}

	case Call:
		if toCall <= 0 {
			return s, illegal("nothing to call")
		}
		next.pay(idx, toCall)

	case Bet:
		if next.CurrentBet != 0 {
			return s, illegal("cannot bet into %d, raise instead", next.CurrentBet)
		}
		if a.Amount < next.BigBlind {
			return s, illegal("bet %d is below the big blind %d", a.Amount, next.BigBlind)
		}
		// An oversized bet is clamped to the stack, but the requested size
		// still sets the minimum raise.
		next.pay(idx, a.Amount)
		next.CurrentBet = p.CurrentBet
		next.LastAggressor = idx
		next.LastRaiseSize = a.Amount

	case Raise:
		if next.CurrentBet == 0 {
			return s, illegal("nothing to raise, bet instead")
		}
		if a.Amount <= p.CurrentBet {
			return s, illegal("raise to %d does not add chips", a.Amount)
		}
		if p.Chips+p.CurrentBet < a.Amount {
			next.pushAllIn(idx)
			break
		}
		if a.Amount < minTotal {
			return s, illegal("raise to %d is below the minimum of %d", a.Amount, minTotal)
		}
		next.pay(idx, a.Amount-p.CurrentBet)
		next.LastRaiseSize = a.Amount - next.CurrentBet
		next.CurrentBet = a.Amount
		next.LastAggressor = idx

	case AllIn:
		next.pushAllIn(idx)

	default:
		return s, illegal("unknown action %s", a.Type)
	}

	next.advance()
	return next, nil
}

// pay moves up to amount from a seat's stack into the pot and returns what
// was actually paid. A seat that runs out of chips goes all-in.
func (s *TableState) pay(seat, amount int) int {
	p := &s.Players[seat]
	amount = max(0, min(amount, p.Chips))
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalCommitted += amount
	s.Commitments[p.ID] += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	return amount
}

// pushAllIn commits a seat's whole stack. It opens the round when nobody has
// bet and reopens the betting only when the new total is a full raise.
func (s *TableState) pushAllIn(seat int) {
	p := &s.Players[seat]
	minTotal := s.CurrentBet + s.LastRaiseSize
	s.pay(seat, p.Chips)
	total := p.CurrentBet

	switch {
	case s.CurrentBet == 0:
		s.CurrentBet = total
		s.LastAggressor = seat
		s.LastRaiseSize = total
	case total >= minTotal:
		s.LastRaiseSize = total - s.CurrentBet
		s.CurrentBet = total
		s.LastAggressor = seat
	}
	// A call or under-raise moves chips but leaves the bet to match alone.
}

// advance moves the turn after an accepted action, ending the betting round
// or the hand when appropriate.
func (s *TableState) advance() {
	if countSeats(s.Players, isLive) == 1 {
		s.walkover()
		return
	}

	nextIdx := nextSeat(s.Players, s.CurrentPlayer, isActive)
	if s.bettingComplete(nextIdx) {
		s.endRound()
		return
	}
	s.CurrentPlayer = nextIdx
}

func (s *TableState) bettingComplete(nextIdx int) bool {
	live := countSeats(s.Players, isLive)
	if live <= 1 {
		return true
	}
	for _, p := range s.Players {
		if p.Status == StatusActive && p.CurrentBet != s.CurrentBet {
			return false
		}
	}
	if nextIdx == NoSeat {
		return true
	}
	if countSeats(s.Players, isActive) <= 1 {
		return true
	}
	if s.LastAggressor != NoSeat {
		return nextIdx == s.LastAggressor
	}
	return nextIdx == s.RoundStart
}

// endRound deals the next street, or goes to showdown after the river.
func (s *TableState) endRound() {
	switch s.Street {
	case Preflop:
		s.Street = Flop
	case Flop:
		s.Street = Turn
	case Turn:
		s.Street = River
	case River:
		s.showdown()
		return
	case Showdown:
		return
	}
	s.dealCommunity()

	for i := range s.Players {
		s.Players[i].CurrentBet = 0
	}
	s.CurrentBet = 0
	s.LastAggressor = NoSeat
	s.LastRaiseSize = s.BigBlind

	first := nextSeat(s.Players, s.Dealer, isActive)
	if first == NoSeat {
		s.runOut()
		return
	}
	s.CurrentPlayer = first
	s.RoundStart = first
}

// dealCommunity draws board cards up to the count for the current street.
func (s *TableState) dealCommunity() {
	for len(s.Community) < s.Street.communityCount() {
		s.Community = append(s.Community, s.Deck.Draw())
	}
}

// runOut deals the rest of the board when no further betting is possible
// and settles the hand.
func (s *TableState) runOut() {
	s.Street = River
	s.dealCommunity()
	s.showdown()
}
