// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/meta"
	"github.com/staranto/voyage/internal/nasa"
)

var cacheStatsExamples = [][2]string{
	{"voyage cache stats", "every cached response with its age"},
	{"voyage cache stats -f key^mars", "only the Mars rover responses"},
	{"voyage cache stats -o raw", "the raw snapshot, including entry count"},
}

// cacheItem is one row of `cache stats`.
type cacheItem struct {
	Key    string `json:"key"`
	Stored string `json:"stored"`
	Age    string `json:"age"`
	AgeMs  int64  `json:"age_ms"`
	Size   string `json:"size"`
	Bytes  int    `json:"bytes"`
}

var cacheWarmExamples = [][2]string{
	{"voyage cache warm", "fetch today's APOD, Curiosity's default sol and EPIC"},
	{"voyage cache warm -r perseverance", "warm Perseverance instead of Curiosity"},
	{"voyage cache warm -f status=failed", "only the responses that could not be fetched"},
}

// warmItem is one row of `cache warm`.
type warmItem struct {
	Key      string `json:"key"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Summary  string `json:"summary"`
}

type cacheSnapshot struct {
	Entries int         `json:"entries"`
	Items   []cacheItem `json:"items"`
}

// CacheStatsCommandAction lists every cached response with its age and size.
func CacheStatsCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName:  "cache",
		SchemaType:   reflect.TypeOf(cacheItem{}),
		DefaultAttrs: []string{"key", "age", "size", "!age_ms"},
		Parent:       "items",
		Examples:     cacheStatsExamples,
		FetchFn:      cacheStatsFetch,
	}
	return runner.Run(ctx, cmd)
}

func cacheStatsFetch(_ context.Context, _ *cli.Command, rt *Runtime) (json.RawMessage, error) {
	stats := rt.Cache.Stats()

	snap := cacheSnapshot{
		Entries: stats.Entries,
		Items:   make([]cacheItem, 0, len(stats.Items)),
	}
	for _, it := range stats.Items {
		var n int
		if e, ok := rt.Cache.Get(it.Key); ok {
			n = len(e.Data)
		}
		snap.Items = append(snap.Items, cacheItem{
			Key:    it.Key,
			Stored: it.Stored.UTC().Format(time.RFC3339),
			Age:    humanize.RelTime(it.Stored, it.Stored.Add(it.Age), "ago", "from now"),
			AgeMs:  it.AgeMs,
			Size:   humanize.Bytes(uint64(n)),
			Bytes:  n,
		})
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache stats: %w", err)
	}
	return raw, nil
}

// CacheWarmCommandAction fetches the default response of every query command
// so later runs are served from the cache.
func CacheWarmCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName:  "cache",
		SchemaType:   reflect.TypeOf(warmItem{}),
		DefaultAttrs: []string{"key", "category", "status", "summary"},
		Examples:     cacheWarmExamples,
		FetchFn:      cacheWarmFetch,
	}
	return runner.Run(ctx, cmd)
}

// cacheWarmFetch goes through the typed client so each payload is decoded as
// it is stored. A failed item is reported in its row; the command only fails
// when nothing could be fetched.
func cacheWarmFetch(ctx context.Context, cmd *cli.Command, rt *Runtime) (json.RawMessage, error) {
	rover := cmd.String("rover")

	mars, err := nasa.MarsPhotosRequest(rover, nasa.DefaultSol, "")
	if err != nil {
		return nil, err
	}
	apod, err := nasa.APODRequest("")
	if err != nil {
		return nil, err
	}
	epic := nasa.EPICRequest()

	type warmer struct {
		req  nasa.Request
		warm func() (string, error)
	}
	warmers := []warmer{
		{apod, func() (string, error) {
			a, err := rt.Client.APOD(ctx, "")
			if err != nil {
				return "", err
			}
			kind := "image"
			if a.IsVideo() {
				kind = "video"
			}
			return fmt.Sprintf("%s (%s)", a.Title, kind), nil
		}},
		{mars, func() (string, error) {
			p, err := rt.Client.MarsPhotos(ctx, rover, nasa.DefaultSol, "")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d %s on sol %d", len(p.Photos), pluralize(len(p.Photos), "photo", "photos"), nasa.DefaultSol), nil
		}},
		{epic, func() (string, error) {
			imgs, err := rt.Client.EPIC(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d %s", len(imgs), pluralize(len(imgs), "image", "images")), nil
		}},
	}

	items := make([]warmItem, 0, len(warmers))
	var errs []error
	for _, w := range warmers {
		item := warmItem{Key: w.req.Key, Category: w.req.Category, Status: "ok"}
		summary, err := w.warm()
		if err != nil {
			log.WithError(err).WithField("key", w.req.Key).Warn("cache warm failed")
			errs = append(errs, fmt.Errorf("%s: %w", w.req.Key, err))
			item.Status = "failed"
			summary = err.Error()
		}
		item.Summary = summary
		items = append(items, item)
	}

	if len(errs) == len(warmers) {
		return nil, errors.Join(errs...)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache warm results: %w", err)
	}
	return raw, nil
}

// CacheClearCommandAction empties the cache and removes its mirror.
func CacheClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Subcommand())

	rt, err := OpenRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close runtime")
		}
	}()

	n := rt.Cache.Stats().Entries
	rt.Cache.Clear(ctx)

	_, err = fmt.Fprintf(writerOf(cmd), "cache cleared (%d %s)\n", n, pluralize(n, "entry", "entries"))
	return err
}

// CacheCommandBuilder constructs the "cache" command group with its stats,
// warm and clear subcommands.
func CacheCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	stats := (&QueryCommandBuilder{
		Name:      "stats",
		Namespace: "cache",
		Usage:     "list cached responses and their age",
		UsageText: `voyage cache stats [options]`,
		Meta:      meta,
		Action:    CacheStatsCommandAction,
	}).Build()

	warm := (&QueryCommandBuilder{
		Name:      "warm",
		Namespace: "cache",
		Usage:     "prefetch the default responses",
		UsageText: `voyage cache warm [options]`,
		Meta:      meta,
		Flags: []cli.Flag{
			newRoverFlag(meta.Config.Source),
		},
		Action: CacheWarmCommandAction,
	}).Build()

	clear := &cli.Command{
		Name:      "clear",
		Usage:     "remove every cached response",
		UsageText: `voyage cache clear`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewRuntimeFlags(meta.Config.Source),
		Action: CacheClearCommandAction,
	}

	return &cli.Command{
		Name:      "cache",
		Usage:     "inspect, warm or clear the response cache",
		UsageText: `voyage cache <stats|warm|clear> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{stats, warm, clear},
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
