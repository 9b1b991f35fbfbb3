package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/internal/store"
)

// ErrNotSaved is returned by Manager.Do when the session changed but could not
// be written to disk. The in-memory session keeps the change.
var ErrNotSaved = errors.New("session not saved")

// minEvictInterval bounds how often the evictor wakes up.
const minEvictInterval = time.Second

// Manager owns the live sessions of a server. Each session has its own lock
// and no state is shared between sessions.
type Manager struct {
	store    *store.DirStore
	defaults session.Options
	idle     time.Duration
	clock    quartz.Clock
	logger   *log.Logger

	mu       sync.Mutex
	sessions map[string]*liveSession
}

type liveSession struct {
	mu       sync.Mutex
	state    *session.State
	lastUsed time.Time
	// evicted is set once the session has left the map; holders must look
	// the id up again.
	evicted bool
}

// NewManager returns a manager that loads and saves sessions in st. Sessions
// unused for idle are persisted and dropped from memory; idle <= 0 keeps them
// until shutdown.
func NewManager(st *store.DirStore, defaults session.Options, idle time.Duration, clock quartz.Clock, logger *log.Logger) *Manager {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Manager{
		store:    st,
		defaults: defaults,
		idle:     idle,
		clock:    clock,
		logger:   logger.WithPrefix("sessions"),
		sessions: make(map[string]*liveSession),
	}
}

// Do runs fn with exclusive access to session id, loading it on first use.
// When fn reports a change the session is saved before Do returns. An error
// from fn is returned as is, a failed save as ErrNotSaved.
func (m *Manager) Do(id string, fn func(s *session.State) (changed bool, err error)) error {
	for {
		ls := m.acquire(id)
		ls.mu.Lock()
		if ls.evicted {
			ls.mu.Unlock()
			continue
		}

		ls.lastUsed = m.clock.Now()
		changed, err := fn(ls.state)
		if changed {
			if saveErr := m.store.Save(id, ls.state); saveErr != nil {
				m.logger.Error("Failed to save session", "id", id, "error", saveErr)
				if err == nil {
					err = fmt.Errorf("%w: %v", ErrNotSaved, saveErr)
				}
			}
		}
		ls.mu.Unlock()
		return err
	}
}

func (m *Manager) acquire(id string) *liveSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ls, ok := m.sessions[id]; ok {
		return ls
	}

	s, found := m.store.Load(id, m.defaults)
	if found {
		m.logger.Info("Session resumed", "id", id)
	} else {
		m.logger.Info("Session started", "id", id)
	}
	ls := &liveSession{state: s, lastUsed: m.clock.Now()}
	m.sessions[id] = ls
	return ls
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs returns the ids of the sessions held in memory, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EvictIdle persists and drops every session unused for the idle timeout.
// Sessions that fail to save stay in memory. It returns the number evicted.
func (m *Manager) EvictIdle() int {
	if m.idle <= 0 {
		return 0
	}

	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, ls := range m.sessions {
		ls.mu.Lock()
		if now.Sub(ls.lastUsed) >= m.idle {
			if err := m.store.Save(id, ls.state); err != nil {
				m.logger.Warn("Keeping idle session that could not be saved", "id", id, "error", err)
			} else {
				ls.evicted = true
				delete(m.sessions, id)
				evicted++
				m.logger.Debug("Evicted idle session", "id", id, "idle", now.Sub(ls.lastUsed))
			}
		}
		ls.mu.Unlock()
	}
	return evicted
}

// Flush saves every session held in memory.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for id, ls := range m.sessions {
		ls.mu.Lock()
		if err := m.store.Save(id, ls.state); err != nil {
			errs = append(errs, err)
		}
		ls.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Run evicts idle sessions until ctx is done, then flushes the rest.
func (m *Manager) Run(ctx context.Context) error {
	if m.idle > 0 {
		interval := max(m.idle/4, minEvictInterval)
		ticker := m.clock.NewTicker(interval, "evict")
		defer ticker.Stop()

		m.logger.Debug("Evicting idle sessions", "idle", m.idle, "interval", interval)
	loop:
		for {
			select {
			case <-ticker.C:
				if n := m.EvictIdle(); n > 0 {
					m.logger.Info("Evicted idle sessions", "count", n, "remaining", m.Len())
				}
			case <-ctx.Done():
				break loop
			}
		}
	} else {
		<-ctx.Done()
	}

	if err := m.Flush(); err != nil {
		return fmt.Errorf("flush sessions: %w", err)
	}
	return nil
}
