// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nasa

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultRover and DefaultSol are used when the caller leaves them empty.
const (
	DefaultRover = "curiosity"
	DefaultSol   = 4000
)

// RecentSols are tried, newest first, by LatestMarsPhotos.
var RecentSols = []int{4000, 3995, 3990, 3985}

// Rovers lists the rover names the photos endpoint knows about.
var Rovers = []string{"curiosity", "opportunity", "spirit", "perseverance"}

// Request describes one cacheable API call.
type Request struct {
	// Endpoint is the path below the base URL.
	Endpoint string
	// Params are the query parameters, without the API key.
	Params url.Values
	// Key identifies the response in the cache.
	Key string
	// Category selects the freshness window.
	Category string
}

// APODRequest asks for the picture of a given day, or today when date is
// empty.
func APODRequest(date string) (Request, error) {
	params := url.Values{"thumbs": {"true"}}
	key := "apod_today"
	if date != "" {
		if err := validateDate(date); err != nil {
			return Request{}, err
		}
		params.Set("date", date)
		key = "apod_" + date
	}
	return Request{
		Endpoint: "/planetary/apod",
		Params:   params,
		Key:      key,
		Category: CategoryAPOD,
	}, nil
}

// APODRangeRequest asks for every picture between start and end inclusive.
func APODRangeRequest(start, end string) (Request, error) {
	if err := validateDate(start); err != nil {
		return Request{}, err
	}
	if err := validateDate(end); err != nil {
		return Request{}, err
	}
	// YYYY-MM-DD compares correctly as a string.
	if end < start {
		return Request{}, fmt.Errorf("%w: %s < %s", ErrInvalidRange, end, start)
	}
	return Request{
		Endpoint: "/planetary/apod",
		Params: url.Values{
			"start_date": {start},
			"end_date":   {end},
			"thumbs":     {"true"},
		},
		Key:      fmt.Sprintf("apod_range_%s_%s", start, end),
		Category: CategoryAPOD,
	}, nil
}

// RandomAPODRequest asks for count randomly chosen pictures.
func RandomAPODRequest(count int) (Request, error) {
	if count < 1 || count > 100 {
		return Request{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return Request{
		Endpoint: "/planetary/apod",
		Params: url.Values{
			"count":  {strconv.Itoa(count)},
			"thumbs": {"true"},
		},
		Key:      fmt.Sprintf("nasa_random_%d", count),
		Category: CategoryAPOD,
	}, nil
}

// MarsPhotosRequest asks for one rover's photos on a sol, optionally from a
// single camera. Zero values select DefaultRover and DefaultSol.
func MarsPhotosRequest(rover string, sol int, camera string) (Request, error) {
	rover, err := normalizeRover(rover)
	if err != nil {
		return Request{}, err
	}
	if sol <= 0 {
		sol = DefaultSol
	}

	params := url.Values{"sol": {strconv.Itoa(sol)}}
	cameraKey := "all"
	if camera != "" {
		params.Set("camera", camera)
		cameraKey = camera
	}

	return Request{
		Endpoint: fmt.Sprintf("/mars-photos/api/v1/rovers/%s/photos", rover),
		Params:   params,
		Key:      fmt.Sprintf("mars_%s_%d_%s", rover, sol, cameraKey),
		Category: CategoryMars,
	}, nil
}

// EPICRequest asks for the most recent natural-color EPIC images.
func EPICRequest() Request {
	return Request{
		Endpoint: "/EPIC/api/natural/images",
		Params:   url.Values{},
		Key:      "epic_natural",
		Category: CategoryEPIC,
	}
}

func validateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func normalizeRover(rover string) (string, error) {
	if rover == "" {
		return DefaultRover, nil
	}
	rover = strings.ToLower(strings.TrimSpace(rover))
	for _, r := range Rovers {
		if r == rover {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownRover, rover, Rovers)
}
