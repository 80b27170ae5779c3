// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller walks dotted paths through NASA API payloads to pull out
// the values the output pipeline filters, sorts and renders.
package driller
