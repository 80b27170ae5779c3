// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for voyage. It wires flags,
// validators, actions, and shell completion for subcommands, and opens the
// cache-backed NASA client each query runs against.
package command
