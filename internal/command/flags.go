// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/nasa"
)

var (
	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewGlobalFlags returns the output flags shared by every query command. ns
// is the command name and source the config file; values are looked up under
// <ns>.<flag> first, then <flag>.
func NewGlobalFlags(ns string, source string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(source)),
				yaml.YAML("color", altsrc.StringSourcer(source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml, raw)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(source)),
				yaml.YAML("output", altsrc.StringSourcer(source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(source)),
				yaml.YAML("titles", altsrc.StringSourcer(source)),
			),
			Value: false,
		},
	}

	return
}

// NewRuntimeFlags returns the flags that shape the cache and the API client.
// They are carried by every command that touches the cache.
func NewRuntimeFlags(source string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "NASA API key",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VOYAGE_API_KEY"),
				cli.EnvVar("NASA_API_KEY"),
				yaml.YAML("api_key", altsrc.StringSourcer(source)),
			),
			Value:       nasa.DefaultAPIKey,
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "NASA API base URL",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VOYAGE_BASE_URL"),
				yaml.YAML("base_url", altsrc.StringSourcer(source)),
			),
			Value:  nasa.DefaultBaseURL,
			Hidden: true,
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "cache mirror backend (file, redis, s3, none)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VOYAGE_CACHE_BACKEND"),
				yaml.YAML("cache.backend", altsrc.StringSourcer(source)),
			),
			Value: "file",
			Validator: func(value string) error {
				return FlagValidators(value, BackendValidator)
			},
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "directory for the file cache backend",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("cache.dir", altsrc.StringSourcer(source)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write Prometheus metrics to this file on exit",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VOYAGE_METRICS_FILE"),
				yaml.YAML("metrics.file", altsrc.StringSourcer(source)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain. An empty ns adds only the global
// source.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if ns != "" {
		src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
