// Package redis stores the session record in Redis so several machines can
// share one console login.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/botadmin/internal/console/store"
	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "botadmin:"

type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ store.Store = (*Store)(nil)

// NewStore wraps client using DefaultPrefix.
func NewStore(client redis.UniversalClient) *Store {
	return NewStoreWithPrefix(client, DefaultPrefix)
}

// NewStoreWithPrefix creates a Redis store with a custom key prefix.
func NewStoreWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete issues a single multi-key DEL, which Redis applies atomically.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
