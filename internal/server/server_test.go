package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/nlhe/internal/bot"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// newTestServer serves one table with humans p0 and p1 and a calling bot p2.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	manager := table.NewManager(testLogger())
	t.Cleanup(manager.Close)
	_, err := manager.Create(table.Config{
		Name: "Test",
		Game: game.TableConfig{
			ID: "t1",
			Seats: []game.SeatConfig{
				{ID: "p0", Chips: 1000},
				{ID: "p1", Chips: 1000},
				{ID: "p2", Chips: 1000},
			},
			SmallBlind: 5,
			BigBlind:   10,
		},
		Agents: map[string]bot.Agent{"p2": bot.NewCallBot(testLogger())},
		Seed:   7,
		Clock:  quartz.NewMock(t),
		Logger: testLogger(),
	})
	require.NoError(t, err)

	srv := NewServer(":0", manager, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		ts.Close()
	})
	return srv, ts
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, query), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(typ, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(*Message) bool) *Message {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(&msg) {
			return &msg
		}
	}
}

func readState(t *testing.T, conn *websocket.Conn, match func(StateData) bool) StateData {
	t.Helper()
	var state StateData
	readUntil(t, conn, func(msg *Message) bool {
		if msg.Type != MessageTypeState {
			return false
		}
		state = StateData{}
		require.NoError(t, json.Unmarshal(msg.Data, &state))
		return match(state)
	})
	return state
}

func readError(t *testing.T, conn *websocket.Conn) ErrorData {
	t.Helper()
	msg := readUntil(t, conn, func(msg *Message) bool { return msg.Type == MessageTypeError })
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestServerTables(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var tables []table.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, "t1", tables[0].ID)
	assert.Equal(t, "Test", tables[0].Name)
	assert.Equal(t, 3, tables[0].Players)
	assert.Equal(t, 1, tables[0].Bots)
}

func TestWebSocketRejectsBadSeats(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	for _, tc := range []struct {
		name   string
		query  string
		status int
	}{
		{"unknown table", "table=nope&player=p0", http.StatusNotFound},
		{"unknown player", "table=t1&player=nobody", http.StatusNotFound},
		{"bot seat", "table=t1&player=p2", http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, tc.query), nil)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestWebSocketPlay(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t)

	conn := dial(t, ts, "player=p0")
	initial := readState(t, conn, func(StateData) bool { return true })
	assert.Equal(t, "t1", initial.TableID)
	assert.Equal(t, "p0", initial.PlayerID)
	assert.False(t, initial.View.InProgress)

	send(t, conn, MessageTypeStartHand, nil)
	state := readState(t, conn, func(s StateData) bool { return s.View.InProgress })
	assert.Equal(t, 1, srv.Connections())
	assert.Equal(t, 1, state.View.HandNumber)
	assert.Len(t, state.View.Seats[0].HoleCards, 2)
	assert.Empty(t, state.View.Seats[1].HoleCards)
	require.Equal(t, 0, state.View.CurrentPlayer)
	require.NotNil(t, state.View.Options)
	assert.Equal(t, 10, state.View.Options.CallAmount)

	send(t, conn, MessageTypeStartHand, nil)
	assert.Equal(t, CodeHandInProgress, readError(t, conn).Code)

	send(t, conn, MessageTypeAction, ActionData{Action: "check"})
	assert.Equal(t, CodeIllegalAction, readError(t, conn).Code)

	send(t, conn, MessageTypeAction, ActionData{Action: "shove"})
	assert.Equal(t, CodeInvalidMessage, readError(t, conn).Code)

	send(t, conn, MessageTypeAction, ActionData{Action: "raise", Amount: 30})
	state = readState(t, conn, func(s StateData) bool { return s.View.CurrentPlayer == 1 })
	assert.Equal(t, 30, state.View.CurrentBet)
	assert.Nil(t, state.View.Options)
	assert.Equal(t, 970, state.View.Seats[0].Chips)
}

func TestWebSocketSpectator(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	player := dial(t, ts, "table=t1&player=p0")
	readState(t, player, func(StateData) bool { return true })
	send(t, player, MessageTypeStartHand, nil)
	readState(t, player, func(s StateData) bool { return s.View.InProgress })

	spectator := dial(t, ts, "table=t1")
	state := readState(t, spectator, func(s StateData) bool { return s.View.InProgress })
	assert.Empty(t, state.PlayerID)
	for _, seat := range state.View.Seats {
		assert.Empty(t, seat.HoleCards)
	}
	assert.Nil(t, state.View.Options)

	send(t, spectator, MessageTypeAction, ActionData{Action: "fold"})
	assert.Equal(t, CodeSpectator, readError(t, spectator).Code)

	send(t, spectator, MessageType("chat"), map[string]string{"text": "hi"})
	assert.Equal(t, CodeUnknownType, readError(t, spectator).Code)
}

func TestActionDataToAction(t *testing.T) {
	t.Parallel()

	a, err := ActionData{Action: "raise", Amount: 40}.ToAction("p1")
	require.NoError(t, err)
	assert.Equal(t, game.Action{Type: game.Raise, Amount: 40, PlayerID: "p1"}, a)

	a, err = ActionData{Action: "all-in"}.ToAction("p1")
	require.NoError(t, err)
	assert.Equal(t, game.AllIn, a.Type)

	_, err = ActionData{Action: "limp"}.ToAction("p1")
	require.ErrorIs(t, err, game.ErrInvalidInput)
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	_, err := game.ApplyAction(game.TableState{}, game.Action{Type: game.Fold})
	assert.Equal(t, CodeIllegalAction, errorCode(err))
	assert.Equal(t, CodeHandInProgress, errorCode(table.ErrHandInProgress))
	assert.Equal(t, CodeCannotDeal, errorCode(table.ErrCannotDeal))
	assert.Equal(t, CodeTableClosed, errorCode(table.ErrClosed))
	assert.Equal(t, CodeInvalidMessage, errorCode(io.EOF))
}
