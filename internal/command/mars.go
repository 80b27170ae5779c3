// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/meta"
	"github.com/staranto/voyage/internal/nasa"
)

var marsExamples = [][2]string{
	{"voyage mars", "curiosity photos from the default sol"},
	{"voyage mars -r perseverance --sol 1000", "perseverance photos from sol 1000"},
	{"voyage mars --latest", "the most recent sol that has photos"},
	{"voyage mars --camera NAVCAM --sort=-id", "navigation camera photos, newest id first"},
	{"voyage mars -f camera@HAZ -o json", "hazard camera photos as JSON"},
}

// MarsCommandAction is the action handler for the "mars" subcommand. It
// fetches one rover's photos for a sol, or searches recent sols for the latest
// photos, and emits them per the common flags.
func MarsCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName: "mars",
		SchemaType:  reflect.TypeOf(nasa.MarsPhoto{}),
		DefaultAttrs: []string{
			"id",
			"sol",
			"camera.name:camera",
			"earth_date:date",
			"img_src:url",
		},
		Parent:   "photos",
		Examples: marsExamples,
		FetchFn:  marsFetch,
	}
	return runner.Run(ctx, cmd)
}

func marsFetch(ctx context.Context, cmd *cli.Command, rt *Runtime) (json.RawMessage, error) {
	rover := cmd.String("rover")

	if cmd.Bool("latest") {
		raw, r, err := rt.Client.LatestMarsPhotos(ctx, rover)
		if err != nil {
			return nil, err
		}
		log.WithField("key", r.Key).Debug("latest mars photos")
		return raw, nil
	}

	r, err := nasa.MarsPhotosRequest(rover, cmd.Int("sol"), cmd.String("camera"))
	if err != nil {
		return nil, err
	}
	return rt.Client.Do(ctx, r)
}

// MarsCommandValidator rejects --latest combined with an explicit sol or
// camera, which the recent-sol search ignores.
func MarsCommandValidator(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("latest") && (cmd.IsSet("sol") || cmd.String("camera") != "") {
		return errors.New("--latest cannot be combined with --sol or --camera")
	}
	return nil
}

// MarsCommandBuilder constructs the cli.Command for "mars", wiring metadata,
// flags, and action/validator handlers.
func MarsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "mars",
		Usage:     "mars rover photos",
		UsageText: `voyage mars [options]`,
		Meta:      meta,
		Flags: []cli.Flag{
			newRoverFlag(meta.Config.Source),
			&cli.IntFlag{
				Name:  "sol",
				Usage: "martian day to fetch",
				Value: nasa.DefaultSol,
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			&cli.StringFlag{
				Name:  "camera",
				Usage: "camera abbreviation, e.g. FHAZ, NAVCAM, MAST",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
			&cli.BoolFlag{
				Name:        "latest",
				Usage:       "search recent sols and return the first with photos",
				HideDefault: true,
			},
		},
		Validator: MarsCommandValidator,
		Action:    MarsCommandAction,
	}).Build()
}

// newRoverFlag is --rover, defaulted from VOYAGE_ROVER, then mars.rover or
// rover in the config file. cache warm shares it with mars.
func newRoverFlag(source string) cli.Flag {
	return NameSpacedValueChainFlagFromConfigFile("mars", source, &cli.StringFlag{
		Name:    "rover",
		Aliases: []string{"r"},
		Usage:   "rover name",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("VOYAGE_ROVER"),
		),
		Value: nasa.DefaultRover,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, RoverValidator)
		},
	})
}
