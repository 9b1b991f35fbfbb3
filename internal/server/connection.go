package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack-advisor/internal/command"
	"github.com/lox/blackjack-advisor/internal/session"
)

// Connection is one WebSocket client attached to a session.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps conn for session sessionID.
func NewConnection(conn *websocket.Conn, sessionID string, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		sessionID: sessionID,
		server:    server,
		logger:    logger.WithPrefix("conn").With("session", sessionID),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// SessionID returns the session this connection drives.
func (c *Connection) SessionID() string {
	return c.sessionID
}

// Done is closed when the connection ends.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// send was closed by a concurrent Close
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

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
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError("", CodeInvalidMessage, "Malformed message")
				continue
			}
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

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case MessageTypeCommand:
		var data CommandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, CodeInvalidMessage, "Failed to parse command data")
			return
		}
		c.handleCommand(msg.RequestID, data)

	case MessageTypeGetState:
		c.handleGetState(msg.RequestID)

	default:
		c.sendError(msg.RequestID, CodeUnknownType, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleCommand(requestID string, data CommandData) {
	var (
		result command.Result
		state  StateData
	)
	err := c.server.sessions.Do(c.sessionID, func(s *session.State) (bool, error) {
		var err error
		result, err = c.server.executor.Run(c.ctx, s, data.Input)
		if err != nil {
			return false, err
		}
		state = NewStateData(c.sessionID, s, result.Message)
		return result.Changed, nil
	})

	switch {
	case err == nil:
		c.sendState(requestID, state)
	case errors.Is(err, ErrNotSaved):
		c.sendState(requestID, state)
		c.sendError(requestID, CodeSessionNotSaved, err.Error())
	case errors.Is(err, command.ErrUnknownCommand), errors.Is(err, command.ErrUsage):
		c.sendError(requestID, CodeInvalidCommand, err.Error())
	case errors.Is(err, command.ErrNotAllowed):
		c.sendError(requestID, CodeNotAllowed, err.Error())
	default:
		c.logger.Error("Command failed", "input", data.Input, "error", err)
		c.sendError(requestID, CodeCommandFailed, err.Error())
	}
}

func (c *Connection) handleGetState(requestID string) {
	var state StateData
	_ = c.server.sessions.Do(c.sessionID, func(s *session.State) (bool, error) {
		state = NewStateData(c.sessionID, s, "")
		return false, nil
	})
	c.sendState(requestID, state)
}

func (c *Connection) sendState(requestID string, state StateData) {
	c.reply(requestID, MessageTypeState, state)
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	c.reply(requestID, MessageTypeError, ErrorData{Code: code, Message: message})
}

func (c *Connection) reply(requestID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	if err := c.SendMessage(msg); err != nil {
		c.logger.Debug("Failed to send message", "type", messageType, "error", err)
	}
}
