// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// voyage is the main package for the voyage command line tool. It fetches
// NASA imagery metadata through a time-boxed response cache, wires the CLI,
// delegates to internal packages, and serves as the entry point.
package main
