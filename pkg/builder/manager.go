package builder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// DefaultIdleTTL is how long an untouched session survives before the
// janitor evicts it.
const DefaultIdleTTL = 2 * time.Hour

// janitorSchedule runs the idle sweep every ten minutes.
const janitorSchedule = "@every 10m"

// Manager owns the live authoring sessions, keyed by session id, and evicts
// idle ones on a cron schedule.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	saver    Saver
	logger   *slog.Logger
	idleTTL  time.Duration
	interval time.Duration
	cron     *cron.Cron
}

// NewManager creates a session manager. Sessions it creates auto-save every
// interval (DefaultAutosaveInterval when zero) through the given Saver.
func NewManager(saver Saver, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		saver:    saver,
		logger:   logger,
		idleTTL:  DefaultIdleTTL,
		interval: DefaultAutosaveInterval,
	}
}

// Create opens a new authoring session for the owner (empty for anonymous)
// and starts its auto-save timer.
func (m *Manager) Create(ctx context.Context, owner string) *Session {
	session := NewSession(uuid.NewString(), owner, m.saver)
	session.StartAutosave(ctx, m.interval, m.logger)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Builder session created",
		"session_id", session.ID(), "owner", owner)

	return session
}

// Get returns the session with the given id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions[id]
}

// Close tears down a session: its auto-save timer never fires again.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	session := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if session != nil {
		session.StopAutosave()
	}
}

// Start launches the idle-session janitor.
func (m *Manager) Start() error {
	m.cron = cron.New()

	_, err := m.cron.AddFunc(janitorSchedule, m.sweep)
	if err != nil {
		return err
	}

	m.cron.Start()

	return nil
}

// Stop halts the janitor and tears down every remaining session.
func (m *Manager) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.StopAutosave()
	}
}

// sweep evicts sessions idle for longer than the TTL.
func (m *Manager) sweep() {
	cutoff := time.Now().UTC().Add(-m.idleTTL)

	m.mu.Lock()
	var stale []*Session

	for id, session := range m.sessions {
		if session.LastTouched().Before(cutoff) {
			stale = append(stale, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range stale {
		session.StopAutosave()
		m.logger.Info("Evicted idle builder session", "session_id", session.ID())
	}
}
