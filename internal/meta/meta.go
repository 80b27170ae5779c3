// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"
	"strings"

	"github.com/staranto/voyage/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Namespace is the config namespace for the invoked command, usually its
	// name. Empty when the first argument is a flag.
	Namespace string
}

// New builds a Meta for args. args[1], when it is not a flag, names the
// command and doubles as the config namespace.
func New(ctx context.Context, args []string, cfg config.Type) Meta {
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	return Meta{
		Args:      args,
		Config:    cfg,
		Context:   ctx,
		Namespace: ns,
	}
}

// Subcommand returns the arguments after the binary name.
func (m Meta) Subcommand() []string {
	if len(m.Args) < 2 {
		return nil
	}
	return m.Args[1:]
}
