package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/cache"
	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
)

const keyPrefix = "session:"

// SessionRedis stores sessions as JSON documents so several service
// instances can share them.
type SessionRedis struct {
	cache cache.CacheService
	ttl   time.Duration
}

var _ repositories.SessionRepository = (*SessionRedis)(nil)

func NewSessionRedis(c cache.CacheService, ttl time.Duration) *SessionRedis {
	return &SessionRedis{cache: c, ttl: ttl}
}

func (r *SessionRedis) Get(ctx context.Context, id string) (*models.DocumentSession, error) {
	var session models.DocumentSession
	if err := r.cache.Get(ctx, sessionKey(id), &session); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &session, nil
}

func (r *SessionRedis) Save(ctx context.Context, session *models.DocumentSession) error {
	if err := r.cache.Set(ctx, sessionKey(session.ID), session, r.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	var probe models.DocumentSession
	if err := r.cache.Get(ctx, sessionKey(id), &probe); errors.Is(err, cache.ErrCacheMiss) {
		return repositories.ErrNotFound
	}
	return r.cache.Delete(ctx, sessionKey(id))
}

func sessionKey(id string) string {
	return keyPrefix + id
}
