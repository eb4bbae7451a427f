package game

import (
	"maps"
	"slices"

	"github.com/lox/nlhe/poker"
)

const (
	// NoSeat marks an unset seat index (no dealer yet, no aggressor).
	NoSeat = -1

	// MaxSeats is the largest table the engine deals to.
	MaxSeats = 10
)

// SeatConfig describes one seat at table creation.
type SeatConfig struct {
	ID    string
	Name  string
	Chips int
}

// TableConfig holds the fixed parameters of a table.
type TableConfig struct {
	ID         string
	Seats      []SeatConfig
	SmallBlind int
	BigBlind   int
}

// TableState is a snapshot of a table. Values are never modified in place by
// this package; every transition works on a Clone.
type TableState struct {
	ID         string       `json:"id"`
	Players    []Player     `json:"players"`
	Deck       poker.Deck   `json:"-"`
	Community  []poker.Card `json:"community"`
	Pots       []Pot        `json:"pots"`
	Dealer     int          `json:"dealer"`
	SmallBlind int          `json:"smallBlind"`
	BigBlind   int          `json:"bigBlind"`
	Street     Street       `json:"street"`

	CurrentPlayer int `json:"currentPlayer"`
	RoundStart    int `json:"roundStart"`
	LastAggressor int `json:"lastAggressor"`
	CurrentBet    int `json:"currentBet"`
	LastRaiseSize int `json:"lastRaiseSize"`

	InProgress bool `json:"inProgress"`
	HandNumber int  `json:"handNumber"`

	// Commitments maps player id to chips put in this hand.
	Commitments map[string]int `json:"commitments"`

	// Result describes how the last finished hand was awarded.
	Result *HandResult `json:"result,omitempty"`
}

// CreateTable seats the configured players. The returned table has no hand
// in progress and the dealer button before seat 0.
func CreateTable(cfg TableConfig) (TableState, error) {
	if len(cfg.Seats) > MaxSeats {
		return TableState{}, invalid("%d seats exceeds the maximum of %d", len(cfg.Seats), MaxSeats)
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= 0 {
		return TableState{}, invalid("blinds must be positive (%d/%d)", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.BigBlind < cfg.SmallBlind {
		return TableState{}, invalid("big blind %d is smaller than small blind %d", cfg.BigBlind, cfg.SmallBlind)
	}

	seen := make(map[string]bool, len(cfg.Seats))
	players := make([]Player, len(cfg.Seats))
	funded := 0
	for i, sc := range cfg.Seats {
		switch {
		case sc.ID == "":
			return TableState{}, invalid("seat %d has no id", i)
		case seen[sc.ID]:
			return TableState{}, invalid("duplicate player id %q", sc.ID)
		case sc.Chips < 0:
			return TableState{}, invalid("player %q has negative chips", sc.ID)
		}
		seen[sc.ID] = true

		name := sc.Name
		if name == "" {
			name = sc.ID
		}
		status := StatusOut
		if sc.Chips > 0 {
			status = StatusActive
			funded++
		}
		players[i] = Player{
			ID:     sc.ID,
			Name:   name,
			Seat:   i,
			Chips:  sc.Chips,
			Status: status,
		}
	}
	if funded < 2 {
		return TableState{}, invalid("need at least 2 players with chips, got %d", funded)
	}

	return TableState{
		ID:            cfg.ID,
		Players:       players,
		Community:     []poker.Card{},
		Dealer:        NoSeat,
		SmallBlind:    cfg.SmallBlind,
		BigBlind:      cfg.BigBlind,
		Street:        Preflop,
		CurrentPlayer: NoSeat,
		RoundStart:    NoSeat,
		LastAggressor: NoSeat,
		LastRaiseSize: cfg.BigBlind,
		Commitments:   map[string]int{},
	}, nil
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s TableState) Clone() TableState {
	c := s
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	c.Deck = s.Deck.Clone()
	c.Community = slices.Clone(s.Community)
	c.Pots = make([]Pot, len(s.Pots))
	for i, pot := range s.Pots {
		c.Pots[i] = Pot{Amount: pot.Amount, Eligible: slices.Clone(pot.Eligible)}
	}
	c.Commitments = maps.Clone(s.Commitments)
	if c.Commitments == nil {
		c.Commitments = map[string]int{}
	}
	if s.Result != nil {
		r := s.Result.clone()
		c.Result = &r
	}
	return c
}

// Player returns the seat holding the given player id.
func (s TableState) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Current returns the seat whose turn it is.
func (s TableState) Current() (Player, bool) {
	if !s.InProgress || s.CurrentPlayer < 0 || s.CurrentPlayer >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayer], true
}

// PotTotal is the sum of the commitment ledger, i.e. the chips in the middle.
func (s TableState) PotTotal() int {
	total := 0
	for _, v := range s.Commitments {
		total += v
	}
	return total
}

// TotalChips is every chip on the table, in stacks or in the pot. It is
// constant across the actions of a hand.
func (s TableState) TotalChips() int {
	total := s.PotTotal()
	for _, p := range s.Players {
		total += p.Chips
	}
	return total
}

// SeatedCount is the number of seats that can be dealt into a hand.
func (s TableState) SeatedCount() int {
	return countSeats(s.Players, func(p Player) bool { return p.Chips > 0 })
}
