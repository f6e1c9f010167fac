package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/cache"
	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	b, ok := f.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestSessionRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	store := NewSessionRedis(fc, time.Hour)

	session := &models.DocumentSession{
		ID:      "abc",
		File:    &models.FileReference{Name: "paper.pdf", Size: 2048},
		Summary: "Objective: Study X",
		View:    models.ViewChallenge,
		Quiz: &models.QuizSession{
			Questions:  []models.Question{{ID: 7, Text: "Q", Options: []string{"a", "b"}, CorrectAnswer: 1}},
			Selections: map[int]int{7: 1},
		},
	}
	require.NoError(t, store.Save(ctx, session))
	assert.Equal(t, time.Hour, fc.ttls["session:abc"])

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.Summary, loaded.Summary)
	assert.Equal(t, models.ViewChallenge, loaded.View)
	assert.Equal(t, 1, loaded.Quiz.Selections[7])
}

func TestSessionRedis_Delete(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	store := NewSessionRedis(fc, 0)

	require.NoError(t, store.Save(ctx, &models.DocumentSession{ID: "a"}))
	require.NoError(t, store.Save(ctx, &models.DocumentSession{ID: "b"}))

	require.NoError(t, store.Delete(ctx, "a"))
	_, err := store.Get(ctx, "a")
	assert.True(t, repositories.IsNotFoundError(err))
	assert.True(t, repositories.IsNotFoundError(store.Delete(ctx, "a")))

	_, err = store.Get(ctx, "b")
	assert.NoError(t, err)
}
