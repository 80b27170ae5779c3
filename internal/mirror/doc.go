// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package mirror provides the durable single-slot stores that back the
// response cache: a local file, a Redis key, or an S3 object.
package mirror
