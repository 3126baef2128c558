package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/kirinyoku/deskgo/internal/domain"
)

type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (c *Cache) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	s, ok, err := c.GetString(ctx, key)
	if err != nil || !ok {
		return zero, ok, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func SetJSON(ctx context.Context, c *Cache, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.SetString(ctx, key, string(b), ttl)
}

// GetOrSetJSON returns the cached value for key, or calls loader once per key
// across concurrent callers and caches its result for ttl. Loader errors are
// not cached.
//
// Callers that arrive while a load is running share its result, including its
// error. The loader runs detached from the first caller's cancellation so one
// client hanging up does not fail the others.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if v, ok, err := GetJSON[T](ctx, c, key); err == nil && ok {
		return v, nil
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if v2, ok2, err2 := GetJSON[T](ctx, c, key); err2 == nil && ok2 {
			return v2, nil
		}
		v3, err3 := loader(ctx)
		if err3 != nil {
			return nil, err3
		}
		_ = SetJSON(ctx, c, key, v3, ttl)
		return v3, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v, ok := vAny.(T)
	if !ok {
		var zero T
		return zero, errors.New("type assertion failed")
	}
	return v, nil
}

// FloorPlan reads the cached plan for k, loading and caching it on a miss.
func (c *Cache) FloorPlan(
	ctx context.Context,
	k domain.FloorKey,
	ttl time.Duration,
	loader func(ctx context.Context) (*domain.FloorPlan, error),
) (*domain.FloorPlan, error) {
	return GetOrSetJSON(ctx, c, KeyFloorPlan(k), ttl, loader)
}

// InvalidateFloor drops the cached plans of a floor for every date.
func (c *Cache) InvalidateFloor(ctx context.Context, k domain.FloorKey) error {
	const op = "redis.Cache.InvalidateFloor"

	if err := c.delMatching(ctx, floorPrefix(k.Building, k.Office, k.Floor)+":*"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InvalidateFloorPlans drops every cached plan. Bookings do not say which
// floor their seat is on, so a booking change clears them all.
func (c *Cache) InvalidateFloorPlans(ctx context.Context) error {
	const op = "redis.Cache.InvalidateFloorPlans"

	if err := c.delMatching(ctx, floorPlanPattern()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Cache) delMatching(ctx context.Context, pattern string) error {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Del(ctx, keys...)
}
