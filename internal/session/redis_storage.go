package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// DefaultRedisPrefix namespaces session keys
const DefaultRedisPrefix = "biblio:session:"

// RedisStorage keeps the session in Redis under <prefix>user and <prefix>token,
// for machines where several shells or runners share one login.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage connects to redisURL and verifies the connection
func NewRedisStorage(redisURL, prefix string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, berrors.Wrap(berrors.ErrCodeConfigInvalid, "invalid storage.redis_url", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, berrors.Wrap(berrors.ErrCodeSessionBackend, fmt.Sprintf("failed to connect to redis at %s", opts.Addr), err)
	}

	return NewRedisStorageWithClient(client, prefix), nil
}

// NewRedisStorageWithClient wraps an existing client
func NewRedisStorageWithClient(client *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStorage{client: client, prefix: prefix}
}

func (r *RedisStorage) key(name string) string {
	return r.prefix + name
}

// Get implements Storage
func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, berrors.Wrap(berrors.ErrCodeSessionRead, "failed to read session from redis", err)
	}
	return v, true, nil
}

// Set implements Storage
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to write session to redis", err)
	}
	return nil
}

// Remove implements Storage
func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return berrors.Wrap(berrors.ErrCodeSessionWrite, "failed to remove session from redis", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
