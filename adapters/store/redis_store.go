package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

const redisCredentialKey = "adminauth:credential"

// RedisStore is a Redis implementation of the Store interface, for
// operator contexts that share state across machines.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		key:    redisCredentialKey,
	}
}

var _ ports.Store = (*RedisStore)(nil)

// Load returns the stored raw token, or core.ErrNoCredential if the slot
// is empty.
func (s *RedisStore) Load(ctx context.Context) (string, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", core.ErrNoCredential
		}
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	return raw, nil
}

// Save stores the raw token. The slot has no TTL: expiry lives inside the
// token itself and is evaluated lazily on use.
func (s *RedisStore) Save(ctx context.Context, raw string) error {
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Clear removes the slot.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
