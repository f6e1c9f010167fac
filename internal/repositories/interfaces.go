package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/study-assistant/internal/models"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// SessionRepository stores document sessions. Implementations return copies;
// callers write changes back with Save.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.DocumentSession, error)
	Save(ctx context.Context, session *models.DocumentSession) error
	Delete(ctx context.Context, id string) error
}

// AttemptRepository records submitted quizzes.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	ListBySession(ctx context.Context, sessionID string) ([]*models.QuizAttempt, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}
