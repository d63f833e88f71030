package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisCache оборачивает готовый клиент
func NewRedisCache(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}

	return nil
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete %v from cache: %w", keys, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// NopCache используется, когда Redis не настроен: всегда промах
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (NopCache) Delete(context.Context, ...string) error { return nil }

func (NopCache) Close() error { return nil }
