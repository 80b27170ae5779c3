// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"time"
)

// Entry is a single cached response.
type Entry struct {
	// Key identifies the logical request, e.g. apod_2024-01-15. It is the map
	// key in the mirror blob, so it is not repeated inside the entry.
	Key string `json:"-"`
	// Data is the decoded response body exactly as it was received.
	Data json.RawMessage `json:"data"`
	// Timestamp is when the entry was stored, in milliseconds since the epoch.
	Timestamp int64 `json:"timestamp"`
}

// Stored returns the entry timestamp as a time.Time.
func (e Entry) Stored() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how old the entry is relative to now.
func (e Entry) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.Timestamp) * time.Millisecond
}

// decodeEntries parses a mirror blob of the form
// {"<key>": {"data": ..., "timestamp": ...}}.
func decodeEntries(blob []byte) (map[string]Entry, error) {
	var raw map[string]Entry
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(raw))
	for k, e := range raw {
		// An entry without a payload can't be served as a fallback.
		if len(e.Data) == 0 {
			continue
		}
		e.Key = k
		entries[k] = e
	}
	return entries, nil
}
