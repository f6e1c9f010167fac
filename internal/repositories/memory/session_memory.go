package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
)

type sessionEntry struct {
	session   *models.DocumentSession
	expiresAt time.Time
}

var _ repositories.SessionRepository = (*SessionMemory)(nil)

// SessionMemory keeps sessions in process. A zero ttl disables expiry.
type SessionMemory struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionMemory(ttl time.Duration) *SessionMemory {
	return &SessionMemory{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *SessionMemory) Get(ctx context.Context, id string) (*models.DocumentSession, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry) {
		return nil, repositories.ErrNotFound
	}
	return entry.session.Clone(), nil
}

func (m *SessionMemory) Save(ctx context.Context, session *models.DocumentSession) error {
	entry := sessionEntry{session: session.Clone()}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.sessions[session.ID] = entry
	m.mu.Unlock()
	return nil
}

func (m *SessionMemory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (m *SessionMemory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if m.expired(entry) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *SessionMemory) expired(entry sessionEntry) bool {
	return !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)
}
