package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

const keyPrefix = "session:"

// RedisStore persists session records in Redis with a sliding TTL set on
// every save.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save persists a session record.
func (s *RedisStore) Save(ctx context.Context, id string, rec *Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get retrieves a session record. A corrupt record is deleted and reads as
// missing.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("session", id)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = s.client.Del(ctx, keyPrefix+id).Err()
		return nil, apperrors.NotFound("session", id)
	}
	return &rec, nil
}

// Delete removes a session record.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
