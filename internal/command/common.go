// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/voyage/internal/attrs"
	"github.com/staranto/voyage/internal/meta"
	"github.com/staranto/voyage/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present, runs
// `tldr voyage-<subcmd>` and returns true so the caller can exit early. When
// tldr is not installed the command's own examples are printed instead.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string, examples [][2]string) bool {
	if !cmd.Bool("tldr") {
		return false
	}
	if _, err := exec.LookPath("tldr"); err == nil {
		c := exec.CommandContext(ctx, "tldr", "voyage-"+subcmd)
		c.Stdout = writerOf(cmd)
		c.Stderr = os.Stderr
		if err := c.Run(); err == nil {
			return true
		}
	}
	output.DumpExamples(writerOf(cmd), examples)
	return true
}

// DumpSchemaIfRequested prints the JSON schema for the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(writerOf(cmd), "", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// writerOf returns the root command's Writer, which tests replace, falling
// back to stdout.
func writerOf(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}

// QueryCommandBuilder constructs a cli.Command for the query subcommands
// (apod, mars, epic) using a consistent pattern. The builder wires metadata,
// adds tldr/schema flags, the runtime and global flags, and sets up
// validators.
type QueryCommandBuilder struct {
	Name string
	// Namespace is the config namespace for the output flags. Empty means
	// Name.
	Namespace string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Validator func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	ns := qcb.Namespace
	if ns == "" {
		ns = qcb.Name
	}

	flags := append([]cli.Flag{}, qcb.Flags...)
	flags = append(flags, tldrFlag, schemaFlag)
	flags = append(flags, NewRuntimeFlags(qcb.Meta.Config.Source)...)
	flags = append(flags, NewGlobalFlags(ns, qcb.Meta.Config.Source)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return ctx, err
			}
			if qcb.Validator != nil {
				return ctx, qcb.Validator(ctx, c)
			}
			return ctx, nil
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner encapsulates the common query action pattern for all
// query subcommands. It handles the short-circuit checks, BuildAttrs, the
// runtime lifecycle and output emission, with data fetching provided by
// FetchFn.
type QueryActionRunner struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	// Parent is the gjson path of the row array inside the payload. Empty
	// means the payload itself.
	Parent   string
	Examples [][2]string
	FetchFn  func(context.Context, *cli.Command, *Runtime) (json.RawMessage, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Subcommand())

	// Step 2: Short-circuit checks.
	if ShortCircuitTLDR(ctx, cmd, qar.CommandName, qar.Examples) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs.String())

	// Step 4: Open the cache and client.
	rt, err := OpenRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close runtime")
		}
	}()

	// Step 5: Fetch data.
	raw, err := qar.FetchFn(ctx, cmd, rt)
	if err != nil {
		return err
	}

	// Step 6: Emit + return.
	return output.Emit(raw, attrs, cmd, qar.Parent, writerOf(cmd))
}
