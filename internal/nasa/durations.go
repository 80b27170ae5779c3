// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nasa

import "time"

// Request categories. Each maps to one freshness window.
const (
	CategoryAPOD = "apod"
	CategoryMars = "mars"
	CategoryEPIC = "epic"
)

// Durations maps a category to how long its responses stay fresh.
type Durations map[string]time.Duration

// DefaultDurations returns the stock freshness windows. APOD changes daily,
// rover photos more often.
func DefaultDurations() Durations {
	return Durations{
		CategoryAPOD: time.Hour,
		CategoryMars: 30 * time.Minute,
		CategoryEPIC: 2 * time.Hour,
	}
}

// For returns the window for category, falling back to the APOD window and
// then to one hour.
func (d Durations) For(category string) time.Duration {
	if v, ok := d[category]; ok {
		return v
	}
	if v, ok := d[CategoryAPOD]; ok {
		return v
	}
	return time.Hour
}
