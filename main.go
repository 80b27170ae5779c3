// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/voyage/internal/command"
	"github.com/staranto/voyage/internal/config"
	mylog "github.com/staranto/voyage/internal/log"
	"github.com/staranto/voyage/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments splices a named argument set from the config file into
// args. `voyage apod @hd -t` expands apod.hd; without an @set, apod.defaults
// is used. Sets are either a YAML list or a single string, and each item may
// hold several space separated arguments.
func mangleArguments(args []string) []string {
	// The executable and the command, plus the subcommand for groups such as
	// `cache stats`.
	prefix := 2
	if args[1] == "cache" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		prefix = 3
	}

	preamble := make([]string, prefix)
	copy(preamble, args[:prefix])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	// Find the @set, if there is one, and drop it from the working args.
	set := "defaults"
	rest := make([]string, 0, len(args)-prefix)
	found := false
	for _, a := range args[prefix:] {
		if !found && strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			found = true
			continue
		}
		rest = append(rest, a)
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)

	var spliced []string
	for _, arg := range setArgs {
		spliced = append(spliced, strings.Fields(arg)...)
	}

	// Set args come first so explicit args, parsed later, win.
	result := append(preamble, spliced...)
	result = append(result, rest...)

	log.Debugf("set=%s, args=%v", set, result)
	return result
}
