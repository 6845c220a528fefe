package terminal

import (
	"slices"
	"strings"
	"sync"
)

// Manager keeps the sessions of one process and answers which of them are
// waiting on the user.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session, replacing and closing any previous session with
// the same ID.
func (m *Manager) Register(s *Session) {
	m.mu.Lock()
	prev := m.sessions[s.ID]
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if prev != nil && prev != s {
		prev.Close()
	}
}

// Get returns a session by ID, or nil if not found.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove closes and forgets the session with the given ID.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// Sessions returns all sessions ordered by ID.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Session) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Pending returns the sessions whose state currently has a pending prompt,
// ordered by ID.
func (m *Manager) Pending() []*Session {
	var out []*Session
	for _, s := range m.Sessions() {
		if s.State.Snapshot().HasPendingInput {
			out = append(out, s)
		}
	}
	return out
}

// CloseAll closes and forgets every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
