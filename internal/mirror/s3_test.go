// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package mirror

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is just enough of the S3 REST API (path-style GET/PUT/DELETE on a
// single bucket) to back the mirror.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) (*fakeS3, *s3.Client) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:                     "us-east-1",
		BaseEndpoint:               aws.String(srv.URL),
		UsePathStyle:               true,
		Credentials:                aws.AnonymousCredentials{},
		HTTPClient:                 srv.Client(),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
		RetryMaxAttempts:           1,
	})
	return fake, client
}

func TestS3(t *testing.T) {
	_, client := newTestS3(t)
	exerciseMirror(t, NewS3(client, "voyage-cache", "shared"))
}

func TestS3_ObjectKey(t *testing.T) {
	fake, client := newTestS3(t)
	m := NewS3(client, "voyage-cache", "shared/site")
	assert.Equal(t, "shared/site/nasa_api_cache.json", m.Key())

	require.NoError(t, m.Store(context.Background(), []byte(`{}`)))
	_, ok := fake.objects["voyage-cache/shared/site/nasa_api_cache.json"]
	assert.True(t, ok)
}

func TestS3_Errors(t *testing.T) {
	fake, client := newTestS3(t)
	m := NewS3(client, "voyage-cache", "")
	fake.mu.Lock()
	fake.fail = true
	fake.mu.Unlock()

	_, err := m.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, m.Store(context.Background(), []byte(`{}`)))
	assert.Error(t, m.Remove(context.Background()))
}
