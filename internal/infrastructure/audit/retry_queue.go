package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"teamhub.backend/internal/domain/entities"
	"teamhub.backend/pkg/redis"
)

// DefaultQueueKey is the Redis list holding events whose append failed.
const DefaultQueueKey = "teamhub:activity:retry"

// RetryQueue parks events that could not be appended.
type RetryQueue interface {
	Push(ctx context.Context, event *entities.ActivityEvent) error
	// Pop returns nil, nil when the queue is empty.
	Pop(ctx context.Context) (*entities.ActivityEvent, error)
	Len(ctx context.Context) (int64, error)
}

var (
	redisLPush = redis.LPush
	redisRPop  = redis.RPop
	redisLLen  = redis.LLen
)

// RedisRetryQueue is a FIFO of JSON-encoded events on a Redis list.
type RedisRetryQueue struct {
	key string
}

func NewRedisRetryQueue(key string) *RedisRetryQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisRetryQueue{key: key}
}

func (q *RedisRetryQueue) Push(ctx context.Context, event *entities.ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}
	if err := redisLPush(ctx, q.key, payload); err != nil {
		return fmt.Errorf("push activity event: %w", err)
	}
	return nil
}

func (q *RedisRetryQueue) Pop(ctx context.Context) (*entities.ActivityEvent, error) {
	raw, err := redisRPop(ctx, q.key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("pop activity event: %w", err)
	}
	var event entities.ActivityEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, fmt.Errorf("decode activity event: %w", err)
	}
	return &event, nil
}

func (q *RedisRetryQueue) Len(ctx context.Context) (int64, error) {
	return redisLLen(ctx, q.key)
}
