package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// opTimeout bounds each storage call; the limiter API carries no context
const opTimeout = 2 * time.Second

// RedisStorage is a fiber.Storage backed by Redis, so every instance shares one window per IP
type RedisStorage struct {
	client *redis.Client
}

var _ fiber.Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to Redis and pings it once
func NewRedisStorage(addr, password string, db int) (*RedisStorage, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStorage{client: client}, nil
}

func storageKey(key string) string {
	return keyPrefix + key
}

// Get returns nil, nil when the key does not exist
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.client.Set(ctx, storageKey(key), val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.client.Del(ctx, storageKey(key)).Err()
}

// Reset removes every limiter key, leaving the rest of the database alone
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*opTimeout)
	defer cancel()

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
