// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache holds NASA API responses in memory, keyed by request, and
// mirrors them to a durable slot so they survive restarts.
//
// Freshness is decided by the caller on every lookup: the same entry can be
// fresh for one caller's window and stale for another's. A stale entry is
// never evicted. It is served as the answer of last resort when the remote
// fetch that should have replaced it fails.
package cache
