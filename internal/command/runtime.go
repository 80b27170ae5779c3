// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/cache"
	"github.com/staranto/voyage/internal/config"
	"github.com/staranto/voyage/internal/metrics"
	"github.com/staranto/voyage/internal/mirror"
	"github.com/staranto/voyage/internal/nasa"
)

// DefaultHTTPTimeout bounds a single NASA API request.
const DefaultHTTPTimeout = 30 * time.Second

// Runtime is everything a command needs to reach the NASA API through the
// cache. One Runtime is opened per invocation and closed when the command
// returns.
type Runtime struct {
	Cache   *cache.Cache
	Client  *nasa.Client
	Mirror  cache.Mirror
	Metrics *metrics.Recorder

	metricsFile string
}

// OpenRuntime builds the mirror, cache, metrics recorder and API client from
// the command's flags and the config file.
func OpenRuntime(ctx context.Context, cmd *cli.Command) (*Runtime, error) {
	m, err := mirror.Open(ctx, mirrorSettings(cmd))
	if err != nil {
		return nil, err
	}

	rec := metrics.New()
	c := cache.New(ctx,
		cache.WithMirror(m),
		cache.WithObserver(rec),
	)

	timeout, err := config.GetDuration("timeout", DefaultHTTPTimeout)
	if err != nil {
		log.WithError(err).Warn("invalid timeout in config, using default")
		timeout = DefaultHTTPTimeout
	}

	client := nasa.NewClient(c,
		nasa.WithBaseURL(cmd.String("base-url")),
		nasa.WithAPIKey(cmd.String("api-key")),
		nasa.WithHTTPClient(&http.Client{Timeout: timeout}),
		nasa.WithDurations(configuredDurations()),
		nasa.WithRequestObserver(rec.ObserveRequest),
	)

	return &Runtime{
		Cache:       c,
		Client:      client,
		Mirror:      m,
		Metrics:     rec,
		metricsFile: cmd.String("metrics-file"),
	}, nil
}

// Close writes the metrics textfile, when one was asked for, and releases the
// mirror's connections.
func (r *Runtime) Close() error {
	var errs []error
	if r.metricsFile != "" {
		if err := r.Metrics.WriteTextfile(r.metricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	if closer, ok := r.Mirror.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// mirrorSettings assembles mirror.Settings. The backend and file directory
// come from flags; the Redis and S3 details only live in the config file.
func mirrorSettings(cmd *cli.Command) mirror.Settings {
	s := mirror.Settings{
		Backend: cmd.String("backend"),
		Dir:     cmd.String("cache-dir"),
	}

	s.Redis.Addr, _ = config.GetString("cache.redis.addr", "")
	s.Redis.Password, _ = config.GetString("cache.redis.password", "")
	s.Redis.DB, _ = config.GetInt("cache.redis.db", 0)
	s.Redis.Key, _ = config.GetString("cache.redis.key", "")
	s.Redis.Timeout, _ = config.GetDuration("cache.redis.timeout", mirror.DefaultTimeout)

	s.S3.Bucket, _ = config.GetString("cache.s3.bucket", "")
	s.S3.Prefix, _ = config.GetString("cache.s3.prefix", "")
	s.S3.Region, _ = config.GetString("cache.s3.region", "")
	s.S3.Profile, _ = config.GetString("cache.s3.profile", "")
	s.S3.Endpoint, _ = config.GetString("cache.s3.endpoint", "")
	s.S3.PathStyle, _ = config.GetBool("cache.s3.path_style", false)

	log.Debugf("mirror settings: backend=%s dir=%s", s.Backend, s.Dir)
	return s
}

// configuredDurations reads cache.durations.<category> overrides. Invalid
// values are logged and ignored.
func configuredDurations() nasa.Durations {
	d := nasa.Durations{}
	for category := range nasa.DefaultDurations() {
		v, err := config.GetDuration("cache.durations." + category)
		if err != nil {
			continue
		}
		if v < 0 {
			log.Warnf("ignoring negative cache duration for %s", category)
			continue
		}
		d[category] = v
	}
	return d
}
