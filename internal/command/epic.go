// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/meta"
	"github.com/staranto/voyage/internal/nasa"
)

var epicExamples = [][2]string{
	{"voyage epic", "the latest natural-color Earth images"},
	{"voyage epic -a date::t", "image times in the local timezone"},
	{"voyage epic -f 'lat>0' --sort=-lat", "northern hemisphere centroids, northmost first"},
}

// EpicCommandAction is the action handler for the "epic" subcommand. It
// fetches the most recent natural-color images from the DSCOVR EPIC camera
// and emits them per the common flags.
func EpicCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName: "epic",
		SchemaType:  reflect.TypeOf(nasa.EPICImage{}),
		DefaultAttrs: []string{
			"date",
			"image",
			"centroid_coordinates.lat:lat",
			"centroid_coordinates.lon:lon",
			"caption",
		},
		Examples: epicExamples,
		FetchFn: func(ctx context.Context, _ *cli.Command, rt *Runtime) (json.RawMessage, error) {
			return rt.Client.Do(ctx, nasa.EPICRequest())
		},
	}
	return runner.Run(ctx, cmd)
}

// EpicCommandBuilder constructs the cli.Command for "epic".
func EpicCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "epic",
		Usage:     "EPIC earth imagery",
		UsageText: `voyage epic [options]`,
		Meta:      meta,
		Action:    EpicCommandAction,
	}).Build()
}
