package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	// Client to server
	MessageTypeCommand  MessageType = "command"
	MessageTypeGetState MessageType = "get_state"

	// Server to client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// String returns the wire name of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope of every WebSocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage wraps data in an envelope stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// CommandData carries one line of the operator command language, e.g. "p A 6".
type CommandData struct {
	Input string `json:"input"`
}

// ErrorData reports a rejected message or command.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes sent in ErrorData.
const (
	CodeInvalidMessage  = "invalid_message"
	CodeUnknownType     = "unknown_message_type"
	CodeInvalidCommand  = "invalid_command"
	CodeNotAllowed      = "not_allowed"
	CodeCommandFailed   = "command_failed"
	CodeSessionNotSaved = "session_not_saved"
)
