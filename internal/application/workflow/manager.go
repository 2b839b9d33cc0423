package workflow

import (
	"sync"

	"github.com/anhth20011/dockprep/pkg/errors"
)

// Manager owns the live wizard sessions of one service process. Sessions are
// purely in-memory: a wizard run is short-lived and single-owner, so nothing
// here needs to survive a restart.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new wizard session and returns it.
func (m *Manager) Create() *Session {
	s := NewSession()
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.ErrCodeSessionNotFound, "no session %q", id)
	}
	return s, nil
}

// Delete removes the session with the given ID. Deleting an unknown ID is
// not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
