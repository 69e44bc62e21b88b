package scout

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps identities in redis, shared by every server instance.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Ping checks connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Load(ctx context.Context, token string) (string, error) {
	name, err := s.client.Get(ctx, Key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnknownScout
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return name, nil
}

func (s *RedisStore) Save(ctx context.Context, token, name string) error {
	if err := s.client.Set(ctx, Key(token), name, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
