package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rezonia/freight-audit/internal/model"
)

const redisKeyPrefix = "freight-audit:batch:"

// RedisStore keeps batch results in Redis so exports survive restarts
// and work across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed batch store. A zero ttl keeps
// batches forever.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{client: rdb, ttl: ttl}
}

// Save stores the batch result as JSON.
func (s *RedisStore) Save(ctx context.Context, batch *model.BatchResult) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+batch.ID, payload, s.ttl).Err()
}

// Get returns a stored batch, or NoResultError when the key is absent
// or expired.
func (s *RedisStore) Get(ctx context.Context, id string) (*model.BatchResult, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return nil, model.NewNoResultError(id)
	}

	var batch model.BatchResult
	if err := json.Unmarshal([]byte(payload), &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}
