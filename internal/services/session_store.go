package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
)

// errSkipSave aborts a mutation without writing and without failing.
var errSkipSave = errors.New("skip save")

// sessionStore serializes read-modify-write cycles per session. External calls
// must never run inside mutate.
type sessionStore struct {
	repo  repositories.SessionRepository
	mu    sync.Mutex
	locks map[string]*sessionLock
	now   func() time.Time
}

// sessionLock is dropped from the map once no caller holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionStore(repo repositories.SessionRepository) *sessionStore {
	return &sessionStore{
		repo:  repo,
		locks: make(map[string]*sessionLock),
		now:   time.Now,
	}
}

func (s *sessionStore) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func (s *sessionStore) get(ctx context.Context, id string) (*models.DocumentSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *sessionStore) create(ctx context.Context, session *models.DocumentSession) error {
	session.CreatedAt = s.now()
	session.UpdatedAt = session.CreatedAt
	if err := s.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// mutate loads the session, applies fn and saves the result under the
// session lock. Returning errSkipSave from fn leaves the stored state untouched.
func (s *sessionStore) mutate(ctx context.Context, id string, fn func(*models.DocumentSession) error) (*models.DocumentSession, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		if errors.Is(err, errSkipSave) {
			return session, nil
		}
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *sessionStore) delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
