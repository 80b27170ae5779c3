// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

// SlotKey is the fixed name of the durable slot holding the whole cache.
const SlotKey = "nasa_api_cache"

// ErrInvalidPayload is returned, wrapped, when a fetch produced a body that is
// not valid JSON. It is handled exactly like any other fetch failure.
var ErrInvalidPayload = errors.New("invalid JSON payload")

// Mirror is a durable, single-slot store for the serialized cache.
//
// Load returns (nil, nil) when the slot is empty. Remove on an empty slot is
// not an error.
type Mirror interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, blob []byte) error
	Remove(ctx context.Context) error
}

// Fetcher performs the remote retrieval for a single cache key.
type Fetcher func(ctx context.Context) (json.RawMessage, error)

// Cache maps request keys to their last successful response.
//
// Concurrent misses on the same key are not coalesced. Each caller runs its
// own fetch and each success replaces the entry, so the last one to complete
// wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	// persistMu serializes mirror writes so the slot always ends up holding
	// the snapshot taken by the last writer.
	persistMu sync.Mutex

	mirror   Mirror
	now      func() time.Time
	observer Observer
}

// Option configures a Cache.
type Option func(*Cache)

// WithMirror sets the durable mirror. Without one the cache is memory only.
func WithMirror(m Mirror) Option {
	return func(c *Cache) { c.mirror = m }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithObserver registers an Observer for cache events.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// New returns a Cache primed from the mirror, if one is configured. A missing
// or unreadable mirror leaves the cache empty; it never fails construction.
func New(ctx context.Context, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]Entry),
		now:      time.Now,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.load(ctx); err != nil {
		log.WithError(err).Warn("failed to load cache mirror")
		c.observer.Observe(EventMirrorError, "")
	}

	return c
}

// Get returns the entry for key regardless of its age.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// IsValid reports whether an entry exists for key and is younger than maxAge.
// A negative maxAge is never valid.
func (c *Cache) IsValid(key string, maxAge time.Duration) bool {
	_, ok := c.fresh(key, maxAge)
	return ok
}

// FetchWithCache returns the cached payload for key if it is younger than
// maxAge. Otherwise it calls fetch and stores the result.
//
// When fetch fails, any entry for key is returned no matter how old it is,
// with a nil error. Only when there is nothing to fall back on is the fetch
// error returned.
func (c *Cache) FetchWithCache(
	ctx context.Context,
	key string,
	maxAge time.Duration,
	fetch Fetcher,
) (json.RawMessage, error) {
	if e, ok := c.fresh(key, maxAge); ok {
		log.WithField("key", key).Debug("cache hit")
		c.observer.Observe(EventHit, key)
		return bytes.Clone(e.Data), nil
	}

	log.WithField("key", key).Debug("cache miss")
	c.observer.Observe(EventMiss, key)

	data, err := fetch(ctx)
	if err == nil && !json.Valid(data) {
		err = ErrInvalidPayload
	}

	if err != nil {
		c.observer.Observe(EventFetchError, key)

		if e, ok := c.Get(key); ok {
			log.WithField("key", key).
				WithField("age", e.Age(c.now()).Round(time.Second).String()).
				WithError(err).
				Warn("fetch failed, serving stale entry")
			c.observer.Observe(EventFallback, key)
			return bytes.Clone(e.Data), nil
		}

		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	data = bytes.Clone(data)
	c.mu.Lock()
	c.entries[key] = Entry{
		Key:       key,
		Data:      data,
		Timestamp: c.now().UnixMilli(),
	}
	c.mu.Unlock()
	c.observer.Observe(EventStore, key)

	// Mirror failures never reach the caller.
	if err := c.persist(ctx); err != nil {
		log.WithError(err).Warn("failed to persist cache")
		c.observer.Observe(EventMirrorError, key)
	}

	return bytes.Clone(data), nil
}

// Fetch is FetchWithCache with the payload decoded into T.
func Fetch[T any](
	ctx context.Context,
	c *Cache,
	key string,
	maxAge time.Duration,
	fetch Fetcher,
) (T, error) {
	var result T

	data, err := c.FetchWithCache(ctx, key, maxAge, fetch)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return result, nil
}

// Clear drops every entry and removes the mirror slot.
func (c *Cache) Clear(ctx context.Context) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	if c.mirror != nil {
		if err := c.mirror.Remove(ctx); err != nil {
			log.WithError(err).Warn("failed to remove cache mirror")
			c.observer.Observe(EventMirrorError, "")
		}
	}

	log.Debug("cache cleared")
}

// ItemStats describes one entry in a Stats snapshot.
type ItemStats struct {
	Key    string        `json:"key"`
	Stored time.Time     `json:"stored"`
	Age    time.Duration `json:"-"`
	AgeMs  int64         `json:"age_ms"`
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Entries int         `json:"entries"`
	Items   []ItemStats `json:"items"`
}

// Stats returns the entry count and the age of every entry, sorted by key.
func (c *Cache) Stats() Stats {
	now := c.now()

	c.mu.RLock()
	items := make([]ItemStats, 0, len(c.entries))
	for k, e := range c.entries {
		age := e.Age(now)
		items = append(items, ItemStats{
			Key:    k,
			Stored: e.Stored(),
			Age:    age,
			AgeMs:  age.Milliseconds(),
		})
	}
	c.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].Key < items[j].Key
	})

	return Stats{Entries: len(items), Items: items}
}

// fresh returns the entry for key if it is younger than maxAge.
func (c *Cache) fresh(key string, maxAge time.Duration) (Entry, bool) {
	if maxAge < 0 {
		return Entry{}, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}

	if c.now().UnixMilli()-e.Timestamp < maxAge.Milliseconds() {
		return e, true
	}
	return Entry{}, false
}

// load primes the map from the mirror. An empty slot is not an error.
func (c *Cache) load(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}

	blob, err := c.mirror.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read mirror: %w", err)
	}
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil
	}

	entries, err := decodeEntries(blob)
	if err != nil {
		return fmt.Errorf("failed to parse mirror: %w", err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	log.WithField("entries", len(entries)).Debug("loaded cache mirror")
	return nil
}

// persist writes the whole map to the mirror. The caller decides what to do
// with the error; FetchWithCache logs and drops it.
func (c *Cache) persist(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.RLock()
	blob, err := json.Marshal(c.entries)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	if err := c.mirror.Store(ctx, blob); err != nil {
		return fmt.Errorf("failed to write mirror: %w", err)
	}
	return nil
}
