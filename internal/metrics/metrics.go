// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metrics counts cache and API activity with Prometheus collectors
// and writes them out in node_exporter textfile format.
package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/staranto/voyage/internal/cache"
)

// Recorder implements cache.Observer. It owns a private registry so nothing
// leaks into the global default one.
type Recorder struct {
	registry        *prometheus.Registry
	cacheEvents     *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ cache.Observer = (*Recorder)(nil)

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "voyage",
				Name:      "cache_events_total",
				Help:      "Cache events by type and request kind",
			},
			[]string{"event", "kind"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "voyage",
				Name:      "api_requests_total",
				Help:      "Requests sent to the NASA API",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "voyage",
				Name:      "api_request_duration_seconds",
				Help:      "Duration of NASA API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}

	r.registry.MustRegister(r.cacheEvents, r.requestsTotal, r.requestDuration)
	return r
}

// Observe counts one cache event. The kind label is the key's first
// underscore separated segment ("apod", "mars", ...), which keeps the label
// set small.
func (r *Recorder) Observe(ev cache.Event, key string) {
	r.cacheEvents.WithLabelValues(ev.String(), kindOf(key)).Inc()
}

// ObserveRequest records one remote call. status is 0 when the request never
// got a response.
func (r *Recorder) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	endpoint = routeOf(endpoint)
	r.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// WriteTextfile writes every collected metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func kindOf(key string) string {
	if key == "" {
		return "none"
	}
	kind, _, _ := strings.Cut(key, "_")
	return kind
}

// routeOf collapses the rover segment of the photos endpoint so each rover
// does not get its own series.
func routeOf(endpoint string) string {
	const rovers = "/mars-photos/api/v1/rovers/"
	if strings.HasPrefix(endpoint, rovers) {
		return rovers + ":rover/photos"
	}
	return endpoint
}
