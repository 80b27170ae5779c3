// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"cmp"
	"sort"
	"strings"
)

type sortKey struct {
	name          string
	descending    bool
	caseSensitive bool
}

// parseSortSpec splits a --sort spec. Each comma separated key may be
// prefixed with - (descending) and ! (case sensitive), in either order.
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, part := range strings.Split(spec, ",") {
		k := sortKey{name: strings.TrimSpace(part)}
		for len(k.name) > 0 && (k.name[0] == '-' || k.name[0] == '!') {
			if k.name[0] == '-' {
				k.descending = true
			} else {
				k.caseSensitive = true
			}
			k.name = k.name[1:]
		}
		if k.name != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// SortDataset sorts rows in place per spec. Numbers compare numerically,
// everything else as strings. Rows missing a key sort first. An empty spec
// leaves the order alone.
func SortDataset(rows []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(rows[i][k.name], rows[j][k.name], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareValues(a, b interface{}, caseSensitive bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := toNumber(a); ok {
		if fb, ok := toNumber(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	sa, sb := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		sa, sb = strings.ToLower(sa), strings.ToLower(sb)
	}
	return strings.Compare(sa, sb)
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
