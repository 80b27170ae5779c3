// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
)

// Tag represents a discovered struct field tag used when emitting schema
// information (--schema flag).
type Tag struct {
	Kind     string
	Name     string
	Encoding string
}

// NewTag constructs a Tag from a raw json struct tag value and an optional
// holder prefix used to build hierarchical attribute names. Fields that are
// not serialized yield the zero Tag.
func NewTag(h string, s string) Tag {
	tag := Tag{}

	parts := strings.Split(s, ",")
	if parts[0] == "" || parts[0] == "-" {
		return tag
	}

	tag.Name = parts[0]
	if h != "" {
		tag.Name = fmt.Sprintf("%s.%s", h, parts[0])
	}

	if len(parts) > 1 {
		tag.Encoding = strings.Join(parts[1:], ",")
	}

	return tag
}

// Print renders the tag into its display form.
func (t Tag) Print() (out string) {
	parts := []string{}
	if t.Name != "" {
		parts = append(parts, t.Name)
	}
	return strings.Join(parts, ",")
}

// DumpExamples renders a table of example command usages.
func DumpExamples(w io.Writer, examples [][2]string) {
	if len(examples) == 0 {
		return
	}

	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	fmt.Fprintln(w, plainTable("Command", "Description").Rows(rows...))
}

// DumpSchema prints a sorted list of the attributes available on typ.
func DumpSchema(w io.Writer, prefix string, typ reflect.Type) {
	tags := DumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("No tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")

	var rows [][]string
	for _, tag := range tags {
		rows = append(rows, []string{tag.Print(), tag.Kind})
	}
	fmt.Fprintln(w, plainTable().Rows(rows...))

	fmt.Fprintln(w, "")
	fmt.Fprintln(w,
		`Attributes that are directly available to the --attrs, --filter and --sort
flags. Nested attributes use dotted paths. Use --output=raw to see the full
payload.`)
}

const maxSchemaDepth = 1

// DumpSchemaWalker recursively walks a struct type discovering json tags.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	tags := make([]Tag, 0)

	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return tags
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		log.Debugf("field: %s, type: %s in %s", field.Name, field.Type, field.PkgPath)

		tagValue, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue)
		if tag.Name == "" {
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		tag.Kind = ft.Kind().String()

		if ft.Kind() == reflect.Struct && depth < maxSchemaDepth {
			tags = append(tags, DumpSchemaWalker(tag.Name, ft, depth+1)...)
			continue
		}

		tags = append(tags, tag)
	}

	return tags
}

// plainTable is a borderless table, with an optional header row.
func plainTable(headers ...string) *table.Table {
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col > 0 {
				return lipgloss.NewStyle().PaddingLeft(2)
			}
			return lipgloss.NewStyle()
		})

	if len(headers) > 0 {
		t = t.Headers(headers...).BorderHeader(false)
	}
	return t
}
