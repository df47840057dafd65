package websocket

import (
	"encoding/json"
	"log/slog"
	"time"
)

// Message protocol definitions

// Client -> server events
const (
	EventJoinRoom = "join-room" // payload: room id
	EventRegister = "register"  // payload: user id, room derived server-side
)

// Server -> client events
const (
	EventNewNotification = "newNotification"
)

// ClientMessage is what a connected client sends over the socket.
type ClientMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// ServerMessage is what the hub delivers into a room.
type ServerMessage struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"` // time in UTC format
}

// NewServerMessage: constructor for an outbound event
func NewServerMessage(event string, data any) *ServerMessage {
	return &ServerMessage{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal ServerMessage struct to JSON
func (m *ServerMessage) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// ClientMessageFromJSON: unmarshal JSON data to ClientMessage struct
func ClientMessageFromJSON(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Error("Failed to unmarshal message from JSON", "error", err)
		return nil, err
	}
	return &msg, nil
}
