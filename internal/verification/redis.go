package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

const keyPrefix = "verification:token:"

// RedisStore is the durable, shared token store. Redis key TTLs provide the
// passive expiry cleanup: an expired token simply disappears.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed verification token store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: TokenTTL}
}

// Generate creates and persists a fresh token for the subject.
func (s *RedisStore) Generate(ctx context.Context, userID, email string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(Identity{UserID: userID, Email: email})
	if err != nil {
		return "", fmt.Errorf("marshal token identity: %w", err)
	}

	key := keyPrefix + token
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set verification token: %w", err)
	}

	return token, nil
}

// Consume redeems a token. Single use is enforced with SET NX on a marker
// key sharing the token's lifetime, so concurrent redeems of the same token
// cannot both succeed.
func (s *RedisStore) Consume(ctx context.Context, token string) (*Identity, error) {
	key := keyPrefix + token

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.TokenInvalidOrExpired()
		}
		return nil, fmt.Errorf("redis get verification token: %w", err)
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = s.ttl
	}

	set, err := s.client.SetNX(ctx, key+":used", "1", ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mark verification token used: %w", err)
	}
	if !set {
		return nil, apperrors.TokenAlreadyUsed()
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("unmarshal token identity: %w", err)
	}

	return &id, nil
}
