// Package table runs a single poker table: it serialises access to the
// engine state, drives bots, enforces turn timers and fans out snapshots to
// subscribers.
package table

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/nlhe/internal/bot"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/randutil"
)

var (
	// ErrCannotDeal is returned when fewer than two seats have chips.
	ErrCannotDeal = errors.New("cannot deal: fewer than two players with chips")

	// ErrHandInProgress is returned by StartHand while a hand is running.
	ErrHandInProgress = errors.New("hand already in progress")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("table closed")
)

const subscriberBuffer = 16

// Config configures a Table.
type Config struct {
	Name string
	Game game.TableConfig

	// Agents maps player ids to the bots playing those seats.
	Agents map[string]bot.Agent

	// TurnTimeout folds a human seat that has not acted in time. Zero
	// disables the timer.
	TurnTimeout time.Duration

	// AgentDelay is how long bots wait before acting.
	AgentDelay time.Duration

	// AutoDeal starts the next hand NextHandDelay after one finishes.
	AutoDeal      bool
	NextHandDelay time.Duration

	Seed   int64
	Clock  quartz.Clock
	Logger *log.Logger
}

// Table owns one game.TableState. All transitions go through its mutex.
type Table struct {
	mu     sync.Mutex
	state  game.TableState
	name   string
	handID string
	rng    *rand.Rand
	agents map[string]bot.Agent

	turnTimeout   time.Duration
	agentDelay    time.Duration
	autoDeal      bool
	nextHandDelay time.Duration

	clock  quartz.Clock
	logger *log.Logger

	// turn changes on every transition so stale timers can tell they lost.
	turn  uint64
	timer *quartz.Timer

	subs    map[int]chan game.TableState
	nextSub int
	closed  bool
}

// New creates a table. A missing Game.ID gets a random UUID.
func New(cfg Config) (*Table, error) {
	if cfg.Game.ID == "" {
		cfg.Game.ID = uuid.NewString()
	}
	state, err := game.CreateTable(cfg.Game)
	if err != nil {
		return nil, err
	}
	for id := range cfg.Agents {
		if _, ok := state.Player(id); !ok {
			return nil, fmt.Errorf("%w: agent for unknown player %q", game.ErrInvalidInput, id)
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Game.ID
	}

	t := &Table{
		state:         state,
		name:          cfg.Name,
		rng:           randutil.New(cfg.Seed),
		agents:        cfg.Agents,
		turnTimeout:   cfg.TurnTimeout,
		agentDelay:    cfg.AgentDelay,
		autoDeal:      cfg.AutoDeal,
		nextHandDelay: cfg.NextHandDelay,
		clock:         cfg.Clock,
		logger:        cfg.Logger.WithPrefix("table").With("table", cfg.Game.ID),
		subs:          make(map[int]chan game.TableState),
	}
	t.logger.Info("Table created", "name", t.name, "seats", len(state.Players), "seed", cfg.Seed,
		"blinds", fmt.Sprintf("%d/%d", state.SmallBlind, state.BigBlind))
	return t, nil
}

// ID returns the table id.
func (t *Table) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ID
}

// Name returns the display name.
func (t *Table) Name() string {
	return t.name
}

// State returns a copy of the current snapshot.
func (t *Table) State() game.TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// View projects the current snapshot for one player.
func (t *Table) View(viewerID string) game.TableView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.View(viewerID)
}

// IsBot reports whether a seat is played by an agent.
func (t *Table) IsBot(playerID string) bool {
	_, ok := t.agents[playerID]
	return ok
}

// StartHand deals a new hand.
func (t *Table) StartHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startHandLocked()
}

func (t *Table) startHandLocked() error {
	if t.closed {
		return ErrClosed
	}
	if t.state.InProgress {
		return ErrHandInProgress
	}
	next := game.StartHand(t.state, t.rng)
	if !next.InProgress && next.Result == nil {
		return ErrCannotDeal
	}

	t.handID = uuid.Must(uuid.NewV7()).String()
	t.logger.Info("Hand started", "hand", next.HandNumber, "hand_id", t.handID, "dealer", next.Dealer)
	t.commitLocked(next)
	return nil
}

// Apply submits an action for the current actor.
func (t *Table) Apply(a game.Action) (game.TableState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return t.state, ErrClosed
	}
	return t.applyLocked(a)
}

func (t *Table) applyLocked(a game.Action) (game.TableState, error) {
	actor, _ := t.state.Current()
	next, err := game.ApplyAction(t.state, a)
	if err != nil {
		t.logger.Debug("Action rejected", "player", actor.ID, "action", a, "error", err)
		return t.state, err
	}
	t.logger.Debug("Action", "hand", next.HandNumber, "player", actor.ID, "action", a, "street", next.Street)
	t.commitLocked(next)
	return next, nil
}

// commitLocked installs a new snapshot, publishes it and schedules whatever
// happens next: a bot move, a turn timeout or the next deal.
func (t *Table) commitLocked(next game.TableState) {
	for {
		t.state = next
		t.turn++
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
		t.publishLocked()

		if !next.InProgress {
			t.handFinishedLocked()
			return
		}

		actor, _ := next.Current()
		agent, isBot := t.agents[actor.ID]
		if !isBot {
			if t.turnTimeout > 0 {
				t.scheduleLocked(t.turnTimeout, t.timeout)
			}
			return
		}
		if t.agentDelay > 0 {
			t.scheduleLocked(t.agentDelay, t.agentTurn)
			return
		}

		// Bots without a delay act straight away.
		a := agent.Decide(next, next.CurrentPlayer)
		var err error
		next, err = game.ApplyAction(next, a)
		if err != nil {
			t.logger.Warn("Bot chose an illegal action, folding", "player", actor.ID, "action", a, "error", err)
			next = t.mustFold(next)
		}
	}
}

func (t *Table) mustFold(s game.TableState) game.TableState {
	next, err := game.ApplyAction(s, game.Action{Type: game.Fold})
	if err != nil {
		panic(fmt.Sprintf("fold rejected: %v", err))
	}
	return next
}

func (t *Table) handFinishedLocked() {
	if r := t.state.Result; r != nil && r.HandNumber == t.state.HandNumber && t.handID != "" {
		t.logger.Info("Hand finished", "hand", r.HandNumber, "hand_id", t.handID,
			"showdown", r.Showdown, "winnings", r.Winnings)
		t.handID = ""
	}
	if t.autoDeal && t.state.SeatedCount() >= 2 {
		t.scheduleLocked(t.nextHandDelay, t.deal)
	}
}

func (t *Table) scheduleLocked(d time.Duration, fn func(token uint64)) {
	token := t.turn
	t.timer = t.clock.AfterFunc(d, func() { fn(token) })
}

// fire runs fn if the turn that scheduled it is still current.
func (t *Table) fire(token uint64, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || token != t.turn {
		return
	}
	fn()
}

func (t *Table) timeout(token uint64) {
	t.fire(token, func() {
		actor, _ := t.state.Current()
		t.logger.Info("Turn timed out, folding", "player", actor.ID, "timeout", t.turnTimeout)
		if _, err := t.applyLocked(game.Action{Type: game.Fold, PlayerID: actor.ID}); err != nil {
			t.logger.Error("Timeout fold rejected", "player", actor.ID, "error", err)
		}
	})
}

func (t *Table) agentTurn(token uint64) {
	t.fire(token, func() {
		actor, _ := t.state.Current()
		agent := t.agents[actor.ID]
		a := agent.Decide(t.state, t.state.CurrentPlayer)
		if _, err := t.applyLocked(a); err != nil {
			t.logger.Warn("Bot chose an illegal action, folding", "player", actor.ID, "action", a, "error", err)
			t.commitLocked(t.mustFold(t.state))
		}
	})
}

func (t *Table) deal(token uint64) {
	t.fire(token, func() {
		if err := t.startHandLocked(); err != nil {
			t.logger.Info("Auto-deal stopped", "error", err)
		}
	})
}

// Subscribe returns a channel receiving every new snapshot, starting with
// the current one, and a function to cancel the subscription. Slow
// subscribers lose the oldest snapshots. Received states must not be
// modified.
func (t *Table) Subscribe() (<-chan game.TableState, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan game.TableState, subscriberBuffer)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	ch <- t.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(c)
			}
		})
	}
}

func (t *Table) publishLocked() {
	for _, ch := range t.subs {
		select {
		case ch <- t.state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- t.state:
			default:
			}
		}
	}
}

// Close stops timers and closes every subscription.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
	t.logger.Info("Table closed")
}

// Summary is a lightweight description of a table for listings.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Players    int    `json:"players"`
	Bots       int    `json:"bots"`
	SmallBlind int    `json:"small_blind"`
	BigBlind   int    `json:"big_blind"`
	HandNumber int    `json:"hand_number"`
	InProgress bool   `json:"in_progress"`
}

// Summary describes the table.
func (t *Table) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{
		ID:         t.state.ID,
		Name:       t.name,
		Players:    len(t.state.Players),
		Bots:       len(t.agents),
		SmallBlind: t.state.SmallBlind,
		BigBlind:   t.state.BigBlind,
		HandNumber: t.state.HandNumber,
		InProgress: t.state.InProgress,
	}
}
