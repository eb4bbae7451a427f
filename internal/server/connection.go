package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/nlhe/internal/game"
	"github.com/lox/nlhe/internal/table"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 256
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client watching, and possibly playing at, a
// table. An empty playerID is a spectator.
type Connection struct {
	conn     *websocket.Conn
	send     chan *Message
	table    *table.Table
	playerID string
	logger   *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func newConnection(parent context.Context, conn *websocket.Conn, tbl *table.Table, playerID string, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(parent)
	return &Connection{
		conn:     conn,
		send:     make(chan *Message, sendBuffer),
		table:    tbl,
		playerID: playerID,
		logger:   logger.WithPrefix("conn").With("table", tbl.ID(), "player", playerID),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
	go c.statePump()
}

// Done is closed once the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A client that cannot keep
// up is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		go func() { _ = c.Close() }()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// statePump forwards every table snapshot as this connection's view.
func (c *Connection) statePump() {
	updates, unsubscribe := c.table.Subscribe()
	defer unsubscribe()

	for {
		select {
		case state, ok := <-updates:
			if !ok {
				_ = c.Close()
				return
			}
			view := state.PublicView()
			if c.playerID != "" {
				view = state.View(c.playerID)
			}
			msg, err := NewMessage(MessageTypeState, StateData{
				TableID:  state.ID,
				PlayerID: c.playerID,
				View:     view,
			})
			if err != nil {
				c.logger.Error("Failed to encode state", "error", err)
				continue
			}
			if err := c.SendMessage(msg); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeAction:
		if c.playerID == "" {
			c.sendError(msg, CodeSpectator, "spectators cannot act")
			return
		}
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, CodeInvalidMessage, "failed to parse action data")
			return
		}
		action, err := data.ToAction(c.playerID)
		if err != nil {
			c.sendError(msg, CodeInvalidMessage, err.Error())
			return
		}
		if _, err := c.table.Apply(action); err != nil {
			c.sendError(msg, errorCode(err), err.Error())
		}

	case MessageTypeStartHand:
		if err := c.table.StartHand(); err != nil {
			c.sendError(msg, errorCode(err), err.Error())
		}

	default:
		err := fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
		c.sendError(msg, CodeUnknownType, err.Error())
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrIllegalAction):
		return CodeIllegalAction
	case errors.Is(err, table.ErrHandInProgress):
		return CodeHandInProgress
	case errors.Is(err, table.ErrCannotDeal):
		return CodeCannotDeal
	case errors.Is(err, table.ErrClosed):
		return CodeTableClosed
	default:
		return CodeInvalidMessage
	}
}

func (c *Connection) sendError(req *Message, code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message, RequestID: req.RequestID})
	if err != nil {
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}
