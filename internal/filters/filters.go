// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/voyage/internal/attrs"
	"github.com/staranto/voyage/internal/driller"
)

// termRe splits a filter term into key, operator and target. The operator is
// one of = ~ ^ < > @ / and may be negated with a leading !.
var termRe = regexp.MustCompile(`^(.*?)(!?[=~^<>@/])(.*)$`)

// Filter is one parsed --filter term, e.g. camera!^NAV.
type Filter struct {
	// Key is an --attrs output key or a dotted path into the row.
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses spec into filters. Terms are separated by "," unless
// VOYAGE_FILTER_DELIM says otherwise. A term without a recognised operator is
// logged and dropped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d, ok := os.LookupEnv("VOYAGE_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	var filters []Filter
	for _, term := range strings.Split(spec, delim) {
		m := termRe.FindStringSubmatch(term)
		if m == nil {
			log.Errorf("invalid filter: %s", term)
			continue
		}

		op := m[2]
		filters = append(filters, Filter{
			Key:     m[1],
			Negate:  strings.HasPrefix(op, "!"),
			Operand: strings.TrimPrefix(op, "!"),
			Target:  m[3],
		})
	}
	return filters
}

// FilterDataset keeps the rows of candidates that satisfy every filter in
// spec and projects each one onto al. Values are left untransformed.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)

	var kept []map[string]interface{}
	for _, row := range candidates.Array() {
		if !matchesAll(row, al, filters) {
			continue
		}

		projected := make(map[string]interface{}, len(al))
		for _, a := range al {
			projected[a.OutputKey] = driller.Driller(row.Raw, a.Key).Value()
		}
		kept = append(kept, projected)
	}
	return kept
}

// matchesAll reports whether row satisfies every filter. A filter with a blank
// key is ignored.
func matchesAll(row gjson.Result, al attrs.AttrList, filters []Filter) bool {
	for _, f := range filters {
		path := resolveKey(f.Key, al)
		if path == "" {
			log.Errorf("filter key not found: %q", f.Key)
			continue
		}
		if !f.Match(driller.Driller(row.Raw, path)) {
			return false
		}
	}
	return true
}

// resolveKey maps a filter key to a JSON path. Output keys from --attrs win;
// anything else is taken as a path into the row. A blank key resolves to "".
func resolveKey(filterKey string, al attrs.AttrList) string {
	filterKey = strings.TrimSpace(filterKey)
	for _, a := range al {
		if a.OutputKey == filterKey {
			return a.Key
		}
	}
	return strings.TrimPrefix(filterKey, ".")
}

// Match reports whether value satisfies f. An absent or null value never
// matches, negated or not.
//
// An object or array only answers @, which tests for an array element or an
// object key equal to the target. Any other operator treats it as unequal to
// every target, so camera=NAVCAM is false and camera!=NAVCAM is true when
// camera is an object.
func (f Filter) Match(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null:
		return false
	case gjson.String, gjson.True, gjson.False:
		return f.matchString(value.String())
	case gjson.Number:
		return f.matchNumber(value)
	default:
		return f.matchComposite(value)
	}
}

func (f Filter) outcome(ok bool) bool {
	return ok != f.Negate
}

func (f Filter) matchString(value string) bool {
	switch f.Operand {
	case "=":
		return f.outcome(value == f.Target)
	case "~":
		return f.outcome(strings.EqualFold(value, f.Target))
	case "^":
		return f.outcome(strings.HasPrefix(value, f.Target))
	case "<":
		return f.outcome(value < f.Target)
	case ">":
		return f.outcome(value > f.Target)
	case "@":
		return f.outcome(strings.Contains(value, f.Target))
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Errorf("invalid regex: %s", f.Target)
			return false
		}
		return f.outcome(re.MatchString(value))
	default:
		log.Errorf("unsupported filter operator: %s", f.Operand)
		return false
	}
}

// matchNumber compares numerically for = < >. The text operators see the
// number as it was written in the payload, so id^10 matches 102.
func (f Filter) matchNumber(value gjson.Result) bool {
	switch f.Operand {
	case "=", "<", ">":
	default:
		return f.matchString(value.Raw)
	}

	target, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		log.Errorf("invalid numeric target: %s", f.Target)
		return false
	}

	n := value.Float()
	switch f.Operand {
	case "<":
		return f.outcome(n < target)
	case ">":
		return f.outcome(n > target)
	default:
		return f.outcome(n == target)
	}
}

func (f Filter) matchComposite(value gjson.Result) bool {
	if f.Operand != "@" {
		return f.Negate
	}

	found := false
	if value.IsArray() {
		for _, item := range value.Array() {
			if item.String() == f.Target {
				found = true
				break
			}
		}
	} else {
		value.ForEach(func(k, _ gjson.Result) bool {
			found = k.String() == f.Target
			return !found
		})
	}
	return f.outcome(found)
}
