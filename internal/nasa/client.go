// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nasa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/voyage/internal/cache"
)

const (
	DefaultBaseURL = "https://api.nasa.gov"
	// DefaultAPIKey is NASA's shared demo key. It is heavily rate limited
	// (30 requests/hour, 50/day per IP).
	DefaultAPIKey = "DEMO_KEY"
)

// Client fetches from the NASA API through a cache.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	cache     *cache.Cache
	durations Durations
	observe   RequestObserver
}

// RequestObserver is told about every remote call. status is 0 when no
// response was received.
type RequestObserver func(endpoint string, status int, elapsed time.Duration)

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		if key != "" {
			c.apiKey = key
		}
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithDurations overlays d on the default freshness windows.
func WithDurations(d Durations) ClientOption {
	return func(c *Client) {
		for k, v := range d {
			c.durations[k] = v
		}
	}
}

func WithRequestObserver(o RequestObserver) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observe = o
		}
	}
}

// NewClient returns a Client that stores every response in store.
func NewClient(store *cache.Cache, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    DefaultAPIKey,
		http:      http.DefaultClient,
		cache:     store,
		durations: DefaultDurations(),
		observe:   func(string, int, time.Duration) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Durations returns the freshness windows in effect.
func (c *Client) Durations() Durations {
	return c.durations
}

// Do runs r through the cache and returns the raw JSON payload.
func (c *Client) Do(ctx context.Context, r Request) (json.RawMessage, error) {
	return c.cache.FetchWithCache(ctx, r.Key, c.durations.For(r.Category), c.fetcher(r))
}

// do is Do with the payload decoded into T.
func do[T any](ctx context.Context, c *Client, r Request) (T, error) {
	return cache.Fetch[T](ctx, c.cache, r.Key, c.durations.For(r.Category), c.fetcher(r))
}

func (c *Client) fetcher(r Request) cache.Fetcher {
	return func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, r.Endpoint, r.Params)
	}
}

// APOD returns the picture for date, or today when date is empty.
func (c *Client) APOD(ctx context.Context, date string) (APOD, error) {
	r, err := APODRequest(date)
	if err != nil {
		return APOD{}, err
	}
	return do[APOD](ctx, c, r)
}

// APODRange returns every picture from start to end inclusive.
func (c *Client) APODRange(ctx context.Context, start, end string) ([]APOD, error) {
	r, err := APODRangeRequest(start, end)
	if err != nil {
		return nil, err
	}
	return do[[]APOD](ctx, c, r)
}

// RandomAPOD returns count random pictures. The selection is cached like any
// other response, so repeated calls inside the window return the same set.
func (c *Client) RandomAPOD(ctx context.Context, count int) ([]APOD, error) {
	r, err := RandomAPODRequest(count)
	if err != nil {
		return nil, err
	}
	return do[[]APOD](ctx, c, r)
}

// MarsPhotos returns the photos a rover took on sol.
func (c *Client) MarsPhotos(ctx context.Context, rover string, sol int, camera string) (MarsPhotos, error) {
	r, err := MarsPhotosRequest(rover, sol, camera)
	if err != nil {
		return MarsPhotos{}, err
	}
	return do[MarsPhotos](ctx, c, r)
}

// EPIC returns the latest natural-color Earth images.
func (c *Client) EPIC(ctx context.Context) ([]EPICImage, error) {
	return do[[]EPICImage](ctx, c, EPICRequest())
}

// LatestMarsPhotos walks RecentSols and returns the first payload with at
// least one photo. A failure on one sol moves on to the next.
func (c *Client) LatestMarsPhotos(ctx context.Context, rover string) (json.RawMessage, Request, error) {
	for _, sol := range RecentSols {
		r, err := MarsPhotosRequest(rover, sol, "")
		if err != nil {
			return nil, Request{}, err
		}

		data, err := c.Do(ctx, r)
		if err != nil {
			log.WithError(err).Debugf("no photos for sol %d", sol)
			continue
		}

		if gjson.GetBytes(data, "photos.#").Int() > 0 {
			return data, r, nil
		}
	}

	return nil, Request{}, ErrNoRecentPhotos
}

// get performs the remote operation: an HTTP GET with the API key appended.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("api_key", c.apiKey)

	log.Debugf("fetching from NASA API: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		// Keep the API key out of error messages.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = c.baseURL + endpoint
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Endpoint:   endpoint,
		}
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if !gjson.ValidBytes(doc.Bytes()) {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrInvalidPayload)
	}

	return doc.Bytes(), nil
}

// statusText strips the numeric code from resp.Status ("429 Too Many
// Requests" -> "Too Many Requests").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
