// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package nasa is a small client for the NASA open APIs (APOD, Mars rover
// photos, EPIC). Every request is routed through a cache.Cache with a
// freshness window chosen by the request's category.
package nasa
