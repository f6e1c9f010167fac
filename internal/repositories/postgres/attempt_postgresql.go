package postgres

import (
	"context"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	err := a.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
