package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/nlhe/internal/game"
)

// ErrUnknownMessageType is reported for messages the server does not handle.
var ErrUnknownMessageType = errors.New("unknown message type")

// MessageType identifies the payload of a Message
type MessageType string

const (
	// Client → Server
	MessageTypeAction    MessageType = "action"
	MessageTypeStartHand MessageType = "start_hand"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// Error codes sent in ErrorData.Code.
const (
	CodeInvalidMessage = "invalid_message"
	CodeIllegalAction  = "illegal_action"
	CodeSpectator      = "spectator"
	CodeHandInProgress = "hand_in_progress"
	CodeCannotDeal     = "cannot_deal"
	CodeTableClosed    = "table_closed"
	CodeUnknownType    = "unknown_message_type"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// ActionData is a player's decision.
type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// ToAction converts the wire form into an engine action for playerID.
func (d ActionData) ToAction(playerID string) (game.Action, error) {
	t, err := game.ParseActionType(d.Action)
	if err != nil {
		return game.Action{}, err
	}
	return game.Action{Type: t, Amount: d.Amount, PlayerID: playerID}, nil
}

// StateData is the table as seen by the receiving connection.
type StateData struct {
	TableID  string         `json:"tableId"`
	PlayerID string         `json:"playerId,omitempty"`
	View     game.TableView `json:"view"`
}

// ErrorData reports a rejected request.
type ErrorData struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}
