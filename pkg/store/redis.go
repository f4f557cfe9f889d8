package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every Redis key written by this program.
const DefaultNamespace = "ghprofile:"

// Redis stores entries on a Redis server under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to addr and verifies the connection with PING.
func NewRedis(ctx context.Context, addr, namespace string) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, prefix: namespace}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Len(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}
