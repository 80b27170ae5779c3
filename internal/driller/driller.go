// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package driller

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Driller resolves path against the JSON document in doc.
//
// path is a dotted list of keys. Any key may carry an index suffix, as in
// photos[2].camera.name. A single-element array is drilled through so that
// key.sub reads from its only element. A key applied to a multi-element array
// is mapped across the elements and yields an array of the elements that
// have it. A path that does not resolve returns an empty Result.
func Driller(doc string, path string) gjson.Result {
	cur := gjson.Parse(doc)

	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}

		name, index, hasIndex := splitIndex(segment)

		cur = unwrap(cur)
		if cur.IsArray() {
			cur = cur.Get("#." + gjson.Escape(name))
			// No element has the key.
			if len(cur.Array()) == 0 {
				return gjson.Result{}
			}
		} else {
			cur = cur.Get(gjson.Escape(name))
		}
		if !cur.Exists() {
			return gjson.Result{}
		}

		if hasIndex {
			elems := cur.Array()
			if index < 0 || index >= len(elems) {
				return gjson.Result{}
			}
			cur = elems[index]
		}
	}

	return unwrap(cur)
}

// splitIndex turns "name[2]" into ("name", 2, true). Anything that is not a
// well formed trailing index is treated as part of the name.
func splitIndex(segment string) (string, int, bool) {
	if !strings.HasSuffix(segment, "]") {
		return segment, 0, false
	}
	open := strings.LastIndex(segment, "[")
	if open <= 0 {
		return segment, 0, false
	}
	i, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return segment, 0, false
	}
	return segment[:open], i, true
}

func unwrap(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if elems := r.Array(); len(elems) == 1 {
			return elems[0]
		}
	}
	return r
}
