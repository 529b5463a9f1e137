package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldPrevious = "previous"
	fieldCurrent  = "current"
)

type redisTracker struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisTracker stores one hash per session under keyPrefix. Entries expire
// after ttl without visits; a zero ttl keeps them forever.
func NewRedisTracker(redisClient *redis.Client, keyPrefix string, ttl time.Duration) Tracker {
	return &redisTracker{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		ttl:         ttl,
	}
}

func (t *redisTracker) Visit(ctx context.Context, session, pathname string) (string, error) {
	key := t.keyPrefix + session

	entry, err := t.load(ctx, key)
	if err != nil {
		return "", err
	}
	next := entry.visit(pathname)

	pipe := t.redisClient.TxPipeline()
	if next != entry {
		pipe.HSet(ctx, key, fieldPrevious, next.Previous, fieldCurrent, next.Current)
	}
	if t.ttl > 0 {
		pipe.Expire(ctx, key, t.ttl)
	}
	if pipe.Len() > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return "", fmt.Errorf("failed to record visit for session %s: %w", session, err)
		}
	}

	return next.Previous, nil
}

func (t *redisTracker) Previous(ctx context.Context, session string) (string, error) {
	entry, err := t.load(ctx, t.keyPrefix+session)
	if err != nil {
		return "", err
	}
	return entry.Previous, nil
}

func (t *redisTracker) load(ctx context.Context, key string) (Entry, error) {
	values, err := t.redisClient.HMGet(ctx, key, fieldPrevious, fieldCurrent).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("failed to load history %s: %w", key, err)
	}

	var entry Entry
	if len(values) == 2 {
		entry.Previous, _ = values[0].(string)
		entry.Current, _ = values[1].(string)
	}
	return entry, nil
}
