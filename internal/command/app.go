// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/config"
	"github.com/staranto/voyage/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// A missing config file is fine, every setting has a default.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Debug("no config file loaded")
	}

	// The arg[1] immediately following the binary (arg[0]) is the voyage
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so meta ignores it
	// if it appears to be a flag.
	m := meta.New(ctx, args, cfg)
	config.SetNamespace(m.Namespace)

	app := &cli.Command{
		Name:  "voyage",
		Usage: "NASA imagery from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "voyage version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		ApodCommandBuilder(app, m),
		CacheCommandBuilder(app, m),
		EpicCommandBuilder(app, m),
		MarsCommandBuilder(app, m),
		CompletionCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	sortFlags(app.Commands)

	return app, nil
}

func sortFlags(cmds []*cli.Command) {
	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		sortFlags(cmd.Commands)
	}
}
