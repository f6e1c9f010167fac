package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
)

var _ repositories.AttemptRepository = (*AttemptMemory)(nil)

// AttemptMemory keeps quiz attempt history in process when no database is configured.
type AttemptMemory struct {
	mu       sync.Mutex
	attempts map[string][]models.QuizAttempt
	nextID   uint
}

func NewAttemptMemory() *AttemptMemory {
	return &AttemptMemory{attempts: make(map[string][]models.QuizAttempt)}
}

func (m *AttemptMemory) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	attempt.ID = m.nextID
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	m.attempts[attempt.SessionID] = append(m.attempts[attempt.SessionID], *attempt)
	return nil
}

func (m *AttemptMemory) ListBySession(ctx context.Context, sessionID string) ([]*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.attempts[sessionID]
	out := make([]*models.QuizAttempt, len(stored))
	for i := range stored {
		attempt := stored[i]
		out[i] = &attempt
	}
	return out, nil
}

func (m *AttemptMemory) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.attempts[sessionID])), nil
}
