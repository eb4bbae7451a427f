package game

import (
	"slices"

	"github.com/lox/nlhe/poker"
)

// Options describes what the current actor may do. Amounts are chip totals
// for the betting round, matching Action.Amount for Raise.
type Options struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"playerId"`

	CanFold  bool `json:"canFold"`
	CanCheck bool `json:"canCheck"`

	CanCall    bool `json:"canCall"`
	CallAmount int  `json:"callAmount,omitempty"` // capped at the stack

	CanBet bool `json:"canBet"`
	MinBet int  `json:"minBet,omitempty"`

	CanRaise   bool `json:"canRaise"`
	MinRaiseTo int  `json:"minRaiseTo,omitempty"`

	// MaxTotal is the round total reached by going all-in.
	MaxTotal int  `json:"maxTotal"`
	CanAllIn bool `json:"canAllIn"`
}

// Allows reports whether an action of the given type would be accepted
// with a suitable amount.
func (o Options) Allows(t ActionType) bool {
	switch t {
	case Fold:
		return o.CanFold
	case Check:
		return o.CanCheck
	case Call:
		return o.CanCall
	case Bet:
		return o.CanBet
	case Raise:
		return o.CanRaise
	case AllIn:
		return o.CanAllIn
	default:
		return false
	}
}

// LegalActions lists the choices open to the current actor. The zero
// Options (with Seat set to NoSeat) is returned when nobody can act.
func LegalActions(s TableState) Options {
	p, ok := s.Current()
	if !ok || !p.CanAct() {
		return Options{Seat: NoSeat}
	}

	toCall := s.CurrentBet - p.CurrentBet
	opts := Options{
		Seat:     s.CurrentPlayer,
		PlayerID: p.ID,
		CanFold:  true,
		CanCheck: p.CurrentBet == s.CurrentBet,
		MaxTotal: p.CurrentBet + p.Chips,
		CanAllIn: p.Chips > 0,
	}
	if toCall > 0 {
		opts.CanCall = true
		opts.CallAmount = min(toCall, p.Chips)
	}
	// ApplyAction clamps a short bet to the stack, but a stack below the big
	// blind is offered AllIn rather than a bet it cannot size.
	if s.CurrentBet == 0 && p.Chips >= s.BigBlind {
		opts.CanBet = true
		opts.MinBet = s.BigBlind
	}
	if s.CurrentBet > 0 {
		opts.MinRaiseTo = s.CurrentBet + s.LastRaiseSize
		opts.CanRaise = opts.MaxTotal >= opts.MinRaiseTo
	}
	return opts
}

// SeatView is the public face of a seat.
type SeatView struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Seat           int          `json:"seat"`
	Chips          int          `json:"chips"`
	Status         Status       `json:"status"`
	CurrentBet     int          `json:"currentBet"`
	TotalCommitted int          `json:"totalCommitted"`
	HoleCards      []poker.Card `json:"holeCards,omitempty"`
	Dealer         bool         `json:"dealer,omitempty"`
}

// TableView is a read-only projection of a table for one viewer.
type TableView struct {
	ID            string       `json:"id"`
	HandNumber    int          `json:"handNumber"`
	Seats         []SeatView   `json:"seats"`
	Community     []poker.Card `json:"community"`
	Pots          []Pot        `json:"pots"`
	PotTotal      int          `json:"potTotal"`
	Street        Street       `json:"street"`
	CurrentPlayer int          `json:"currentPlayer"`
	Dealer        int          `json:"dealer"`
	SmallBlind    int          `json:"smallBlind"`
	BigBlind      int          `json:"bigBlind"`
	CurrentBet    int          `json:"currentBet"`
	InProgress    bool         `json:"inProgress"`
	Result        *HandResult  `json:"result,omitempty"`

	// Options is set only when it is the viewer's turn.
	Options *Options `json:"options,omitempty"`
}

// View projects the table for viewerID. Other players' hole cards are
// hidden unless they were shown down at the end of the hand. An empty
// viewerID sees every card.
func (s TableState) View(viewerID string) TableView {
	return s.view(viewerID, viewerID == "")
}

// PublicView is the table as seen by a spectator: only hole cards shown
// down at the end of the hand are visible.
func (s TableState) PublicView() TableView {
	return s.view("", false)
}

func (s TableState) view(viewerID string, all bool) TableView {
	v := TableView{
		ID:            s.ID,
		HandNumber:    s.HandNumber,
		Seats:         make([]SeatView, len(s.Players)),
		Community:     slices.Clone(s.Community),
		Street:        s.Street,
		CurrentPlayer: s.CurrentPlayer,
		Dealer:        s.Dealer,
		SmallBlind:    s.SmallBlind,
		BigBlind:      s.BigBlind,
		CurrentBet:    s.CurrentBet,
		InProgress:    s.InProgress,
	}
	if v.Community == nil {
		v.Community = []poker.Card{}
	}

	if s.InProgress {
		v.Pots = BuildPots(s.Players, s.Commitments)
		v.PotTotal = s.PotTotal()
	} else {
		for _, pot := range s.Pots {
			v.Pots = append(v.Pots, Pot{Amount: pot.Amount, Eligible: slices.Clone(pot.Eligible)})
			v.PotTotal += pot.Amount
		}
	}
	if s.Result != nil {
		r := s.Result.clone()
		v.Result = &r
	}

	for i, p := range s.Players {
		sv := SeatView{
			ID:             p.ID,
			Name:           p.Name,
			Seat:           p.Seat,
			Chips:          p.Chips,
			Status:         p.Status,
			CurrentBet:     p.CurrentBet,
			TotalCommitted: p.TotalCommitted,
			Dealer:         i == s.Dealer,
		}
		if all || viewerID == p.ID || (s.Result != nil && s.Result.Contested(p.ID)) {
			sv.HoleCards = slices.Clone(p.HoleCards)
		}
		v.Seats[i] = sv
	}

	if opts := LegalActions(s); viewerID != "" && opts.PlayerID == viewerID {
		v.Options = &opts
	}
	return v
}
