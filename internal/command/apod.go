// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/meta"
	"github.com/staranto/voyage/internal/nasa"
)

var apodExamples = [][2]string{
	{"voyage apod", "today's picture"},
	{"voyage apod -d 2024-01-15", "the picture for a given day"},
	{"voyage apod --start 2024-01-01 --end 2024-01-07", "a week of pictures"},
	{"voyage apod -n 5 -a explanation::-60", "five random pictures with a shortened explanation"},
	{"voyage apod --start 2024-01-01 -f media_type=video", "videos since the first of the year"},
}

// ApodCommandAction is the action handler for the "apod" subcommand. It
// fetches the Astronomy Picture of the Day for a date, a date range or a
// random sample and emits it per the common flags.
func ApodCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName:  "apod",
		SchemaType:   reflect.TypeOf(nasa.APOD{}),
		DefaultAttrs: []string{"date", "title", "media_type:type", "url"},
		Examples:     apodExamples,
		FetchFn:      apodFetch,
	}
	return runner.Run(ctx, cmd)
}

func apodFetch(ctx context.Context, cmd *cli.Command, rt *Runtime) (json.RawMessage, error) {
	r, err := apodRequest(cmd, time.Now)
	if err != nil {
		return nil, err
	}
	return rt.Client.Do(ctx, r)
}

// apodRequest picks the request shape from the flags. --count wins a random
// sample, --start/--end a range, otherwise a single day.
func apodRequest(cmd *cli.Command, now func() time.Time) (nasa.Request, error) {
	date := cmd.String("date")
	start := cmd.String("start")
	end := cmd.String("end")
	count := cmd.Int("count")

	switch {
	case count > 0:
		return nasa.RandomAPODRequest(count)

	case start != "" || end != "":
		if start == "" {
			return nasa.Request{}, errors.New("--end requires --start")
		}
		if end == "" {
			end = now().UTC().Format(time.DateOnly)
		}
		return nasa.APODRangeRequest(start, end)

	default:
		return nasa.APODRequest(date)
	}
}

// ApodCommandValidator rejects flag combinations that select more than one
// request shape.
func ApodCommandValidator(ctx context.Context, cmd *cli.Command) error {
	shapes := 0
	if cmd.String("date") != "" {
		shapes++
	}
	if cmd.String("start") != "" || cmd.String("end") != "" {
		shapes++
	}
	if cmd.Int("count") > 0 {
		shapes++
	}
	if shapes > 1 {
		return errors.New("--date, --start/--end and --count are mutually exclusive")
	}
	return nil
}

// ApodCommandBuilder constructs the cli.Command for "apod", wiring metadata,
// flags, and action/validator handlers.
func ApodCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	dateValidator := func(value string) error {
		return FlagValidators(value, JammedFlagValidator, DateValidator)
	}

	return (&QueryCommandBuilder{
		Name:      "apod",
		Usage:     "astronomy picture of the day",
		UsageText: `voyage apod [options]`,
		Meta:      meta,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "date",
				Aliases:   []string{"d"},
				Usage:     "day to fetch (YYYY-MM-DD), defaults to today",
				Validator: dateValidator,
			},
			&cli.StringFlag{
				Name:      "start",
				Usage:     "first day of a range (YYYY-MM-DD)",
				Validator: dateValidator,
			},
			&cli.StringFlag{
				Name:      "end",
				Usage:     "last day of a range (YYYY-MM-DD), defaults to today",
				Validator: dateValidator,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of random pictures (1-100)",
				Validator: func(value int) error {
					return FlagValidators(value, CountValidator)
				},
			},
		},
		Validator: ApodCommandValidator,
		Action:    ApodCommandAction,
	}).Build()
}
