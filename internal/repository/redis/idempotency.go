package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const idemNS = ns + ":idem"

// KeyIdemSave guards a workspace against a second save while one is running.
func KeyIdemSave(workspaceID string) string {
	return fmt.Sprintf("%s:save:%s", idemNS, workspaceID)
}

// KeyIdemBooking scopes an Idempotency-Key header to the user who sent it.
func KeyIdemBooking(userID, idemKey string) string {
	return fmt.Sprintf("%s:bookings:%s:%s", idemNS, keyPart(userID), idemKey)
}

// IdempotencyStore holds either "LOCK" while an operation is running or
// "RES:<payload>" once it finished.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, "LOCK", lockTTL).Result()
}

func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, jsonPayload string) error {
	return s.rdb.Set(ctx, key, "RES:"+jsonPayload, s.ttl).Err()
}

func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if payload, ok := strings.CutPrefix(v, "RES:"); ok {
		return payload, true, nil
	}
	return "", false, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
