package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/deskgo/internal/session"
)

// SessionStore keeps sessions as JSON with a sliding TTL: every save extends
// the session's life.
type SessionStore struct {
	cache *Cache
	ttl   time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: NewCache(rdb), ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	const op = "redis.SessionStore.Get"

	sess, ok, err := GetJSON[*session.Session](ctx, s.cache, KeySession(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok || sess == nil {
		return nil, fmt.Errorf("%s: %w", op, session.ErrNotFound)
	}
	return sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	const op = "redis.SessionStore.Save"

	if err := SetJSON(ctx, s.cache, KeySession(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	const op = "redis.SessionStore.Delete"

	if err := s.cache.Del(ctx, KeySession(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
