package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.QuizAttempt{}))
	return db
}

func TestAttemptPostgreSQL_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewAttemptPostgreSQL(setupTestDB(t))

	for i, score := range []int{1, 2} {
		require.NoError(t, repo.Create(ctx, &models.QuizAttempt{
			SessionID:     "s1",
			DocumentName:  "notes.txt",
			Score:         score,
			Total:         2,
			Answers:       datatypes.JSON(`[]`),
			AttemptNumber: i + 1,
			SubmittedAt:   time.Now(),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.QuizAttempt{SessionID: "s2", Total: 1, AttemptNumber: 1}))

	count, err := repo.CountBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	attempts, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].Score)
	assert.Equal(t, 2, attempts[1].Score)
	assert.Equal(t, "notes.txt", attempts[0].DocumentName)
}

func TestAttemptPostgreSQL_EmptySession(t *testing.T) {
	repo := NewAttemptPostgreSQL(setupTestDB(t))

	attempts, err := repo.ListBySession(context.Background(), "none")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}
