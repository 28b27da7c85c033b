package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "session:"

func NewRedisClient(ctx context.Context, host string, port, db int) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("address", addr).Msg("Failed to connect to Redis")
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	log.Info().Str("address", addr).Msg("Successfully connected and pinged Redis")
	return client, nil
}

// RedisStore keeps one key per session; the key's TTL is the session lifetime.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.Expire(ctx, keyPrefix+id, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to refresh session %s: %w", id, err)
	}
	return ok, nil
}

func (s *RedisStore) Create(ctx context.Context, id string, ttl time.Duration) error {
	created, err := s.client.SetNX(ctx, keyPrefix+id, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", id, err)
	}
	if !created {
		return errors.New("session id already in use")
	}
	return nil
}
