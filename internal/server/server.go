// Package server exposes advisory sessions over WebSocket and the statistics
// history over HTTP. Every session is isolated: its state is only touched
// through the Manager under that session's lock.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack-advisor/internal/command"
	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/sessionid"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Config wires a server to its collaborators. History may be nil, which
// disables the history API and archiving on reset.
type Config struct {
	Addr     string
	Sessions *Manager
	History  history.Store
	Clock    quartz.Clock
	IDs      *sessionid.Generator
}

// Server represents the HTTP and WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	sessions    *Manager
	executor    *command.Executor
	history     history.Store
	ids         *sessionid.Generator
	clock       quartz.Clock
	logger      *log.Logger
	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewServer creates a new server
func NewServer(cfg Config, logger *log.Logger) *Server {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.IDs == nil {
		cfg.IDs = sessionid.NewGenerator(cfg.Clock, nil)
	}

	return &Server{
		addr: cfg.Addr,
		upgrader: websocket.Upgrader{
			// The advisor is a local tool; browsers on any origin may drive it.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions:    cfg.Sessions,
		executor:    command.NewExecutor(cfg.History, cfg.Clock, logger),
		history:     cfg.History,
		ids:         cfg.IDs,
		clock:       cfg.Clock,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("GET /api/history/summary", s.handleHistorySummary)
	mux.HandleFunc("GET /api/history/export", s.handleExportHistory)
	mux.HandleFunc("POST /api/history/import", s.handleImportHistory)
	mux.HandleFunc("DELETE /api/history/{id}", s.handleDeleteSnapshot)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
	return mux
}

// Run serves until ctx is done, then closes every connection and shuts the
// HTTP server down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	s.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes all WebSocket connections.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

// ConnectionCount returns the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", conn.SessionID(), "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "session", conn.SessionID(), "total", total)
}

// handleWebSocket attaches a client to the session named by the session query
// parameter, starting a new session when it is absent. The session id is
// returned in the X-Session-Id header and in the first state message.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		var err error
		if id, err = s.ids.Generate(); err != nil {
			s.logger.Error("Failed to generate session id", "error", err)
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}
	} else if err := sessionid.Validate(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	header := http.Header{}
	header.Set("X-Session-Id", id)
	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, id, s, s.logger)
	s.register(client)
	client.Start()
	client.handleGetState("")

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
