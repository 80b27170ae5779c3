// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

// Event is something that happened inside the cache.
type Event int

const (
	EventHit Event = iota
	EventMiss
	EventStore
	EventFallback
	EventFetchError
	EventMirrorError
)

func (e Event) String() string {
	switch e {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventStore:
		return "store"
	case EventFallback:
		return "fallback"
	case EventFetchError:
		return "fetch_error"
	case EventMirrorError:
		return "mirror_error"
	default:
		return "unknown"
	}
}

// Observer receives cache events. key is empty for events that are not tied
// to a single entry, such as a failed mirror load.
type Observer interface {
	Observe(event Event, key string)
}

type nopObserver struct{}

func (nopObserver) Observe(Event, string) {}
