// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/staranto/voyage/internal/cache"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "voyage:" + cache.SlotKey

// Redis keeps the cache blob under a single Redis string key, with no TTL.
type Redis struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

var _ cache.Mirror = (*Redis)(nil)

// NewRedis takes ownership of client; Close closes it.
func NewRedis(client *redis.Client, key string, timeout time.Duration) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Redis{client: client, key: key, timeout: timeout}
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	b, err := r.client.Get(qctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from redis: %w", r.key, err)
	}
	return b, nil
}

func (r *Redis) Store(ctx context.Context, blob []byte) error {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Set(qctx, r.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context) error {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Del(qctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
