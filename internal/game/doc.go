// Package game implements the No-Limit Texas Hold'em rules engine.
//
// The main type is TableState, an immutable snapshot of a table and the hand
// in progress. Transitions are pure functions that return a new snapshot and
// never modify their input:
//
//	state, err := game.CreateTable(game.TableConfig{
//	    Seats: []game.SeatConfig{
//	        {ID: "p1", Name: "Alice", Chips: 1000},
//	        {ID: "p2", Name: "Bob", Chips: 1000},
//	    },
//	    SmallBlind: 5,
//	    BigBlind:   10,
//	})
//	state = game.StartHand(state, randutil.New(42))
//	state, err = game.ApplyAction(state, game.Action{Type: game.Call})
//	if errors.Is(err, game.ErrIllegalAction) {
//	    // state is unchanged
//	}
//
// # Deterministic Testing
//
// StartHand takes the random source used for the shuffle. Tests can pin the
// deal completely with a stacked deck:
//
//	deck := poker.StackedDeck(poker.MustParseCards("As Kd Ah Kc 2s 7d 9c Jh 3s")...)
//	state = game.StartHand(state, nil, game.WithDeck(deck))
//
// # Architecture
//
//   - ring.go: clockwise seat scanning shared by dealer rotation, blinds,
//     dealing and turn order
//   - hand.go: hand setup and the betting state machine
//   - pot.go: side-pot layering from the commitment ledger and awards
//   - view.go: read-only projections for renderers and remote players
//
// Chips are only ever moved between stacks and the per-hand commitment
// ledger, so the sum of both is constant throughout a hand.
package game
