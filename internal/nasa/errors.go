// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nasa

import (
	"errors"
	"fmt"

	"github.com/staranto/voyage/internal/cache"
)

// Sentinel errors for argument validation and empty results. These enable
// callers to detect specific conditions via errors.Is/As while keeping
// messages consistent.
var (
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrInvalidRange   = errors.New("end date is before start date")
	ErrInvalidCount   = errors.New("count must be between 1 and 100")
	ErrUnknownRover   = errors.New("unknown rover")
	ErrNoRecentPhotos = errors.New("no recent Mars photos available")

	// ErrInvalidPayload marks a 2xx response whose body is not JSON.
	ErrInvalidPayload = cache.ErrInvalidPayload
)

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NASA API error: %d %s", e.StatusCode, e.Status)
}
