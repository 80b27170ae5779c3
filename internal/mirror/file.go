// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/staranto/voyage/internal/cache"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. VOYAGE_CACHE_DIR, if set and non-empty
//  2. configured, if non-empty
//  3. os.UserCacheDir()/voyage
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir(configured string) (string, bool) {
	if c, ok := os.LookupEnv("VOYAGE_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if configured != "" {
		return configured, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "voyage"), true
	}
	return "", false
}

// Enabled returns true unless VOYAGE_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("VOYAGE_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir(configured string) (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir(configured)
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// File keeps the cache blob in a single JSON file.
type File struct {
	path string
}

var _ cache.Mirror = (*File)(nil)

// NewFile returns a File mirror rooted at dir.
func NewFile(dir string) *File {
	return &File{path: filepath.Join(dir, cache.SlotKey+".json")}
}

// Path is the location of the blob on disk.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return b, nil
}

// Store replaces the blob atomically by writing a sibling temp file and
// renaming it over the old one.
func (f *File) Store(_ context.Context, blob []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+cache.SlotKey+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}

	log.Debugf("wrote cache file %s", f.path)
	return nil
}

func (f *File) Remove(_ context.Context) error {
	err := os.Remove(f.path)
	if err == nil {
		log.Debugf("removed cache file %s", f.path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to remove cache file: %w", err)
}
