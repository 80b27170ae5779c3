// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"

	awsx "github.com/staranto/voyage/internal/aws"
	"github.com/staranto/voyage/internal/cache"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// DefaultTimeout bounds each Redis operation.
const DefaultTimeout = 5 * time.Second

// Settings selects and configures a mirror backend.
type Settings struct {
	// Backend is one of file, redis, s3 or none. Empty means file.
	Backend string
	// Dir is the base directory for the file backend.
	Dir   string
	Redis RedisSettings
	S3    S3Settings
}

type RedisSettings struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Timeout  time.Duration
}

type S3Settings struct {
	Bucket    string
	Prefix    string
	Region    string
	Profile   string
	Endpoint  string
	PathStyle bool
}

// Open builds the mirror named by s.Backend. When the file backend is
// disabled through VOYAGE_CACHE, or its directory cannot be resolved or
// created, an in-memory mirror is returned instead so the cache still works
// for the lifetime of the process.
func Open(ctx context.Context, s Settings) (cache.Mirror, error) {
	switch s.Backend {
	case "", "file":
		dir, ok, err := EnsureBaseDir(s.Dir)
		if err != nil {
			log.WithError(err).WithField("dir", dir).Warn("file cache unavailable, using memory mirror")
			return NewMemory(), nil
		}
		if !ok {
			log.Debug("file cache disabled, using memory mirror")
			return NewMemory(), nil
		}
		return NewFile(dir), nil

	case "none", "memory":
		return NewMemory(), nil

	case "redis":
		if s.Redis.Addr == "" {
			return nil, errors.New("redis cache backend requires an address")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     s.Redis.Addr,
			Password: s.Redis.Password,
			DB:       s.Redis.DB,
		})
		return NewRedis(client, s.Redis.Key, s.Redis.Timeout), nil

	case "s3":
		if s.S3.Bucket == "" {
			return nil, errors.New("s3 cache backend requires a bucket")
		}
		cfg, err := awsx.LoadAWSConfig(ctx,
			awsx.WithProfile(s.S3.Profile),
			awsx.WithRegion(s.S3.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := awsx.NewS3(cfg, awsx.WithS3Endpoint(s.S3.Endpoint, s.S3.PathStyle))
		return NewS3(client, s.S3.Bucket, s.S3.Prefix), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}
