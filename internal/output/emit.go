// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/voyage/internal/attrs"
	"github.com/staranto/voyage/internal/config"
	"github.com/staranto/voyage/internal/filters"
)

// Emit filters, transforms, sorts and renders raw according to the command's
// --output, --filter, --sort, --color and --titles flags. parent selects the
// array of rows inside the document; an empty parent treats the document
// itself as the rows. A single object is rendered as one row.
func Emit(raw []byte,
	al attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer) error {

	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	output := cmd.String("output")
	if output == "raw" {
		if _, err := w.Write(raw); err != nil {
			return err
		}
		if len(raw) > 0 && raw[len(raw)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}

	fullDataset := gjson.ParseBytes(raw)
	if parent != "" {
		fullDataset = fullDataset.Get(parent)
	}

	if !hasIncluded(al) {
		al = inferAttrs(fullDataset)
		log.Debugf("inferred attrs: %v", al.String())
	}

	// Filter out the rows we don't want. Do it here so that the following
	// processes are slightly more efficient since they'll be working on a smaller
	// dataset.
	rows := filters.FilterDataset(fullDataset, al, cmd.String("filter"))

	// Transform each value in each row.
	for _, row := range rows {
		for i := range al {
			if al[i].TransformSpec != "" {
				row[al[i].OutputKey] = al[i].Transform(row[al[i].OutputKey])
			}
		}
	}

	SortDataset(rows, cmd.String("sort"))

	switch output {
	case "json":
		jsonOutput, err := json.MarshalIndent(project(rows, al), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		if _, err := w.Write(append(jsonOutput, '\n')); err != nil {
			return err
		}
	case "yaml":
		yamlOutput, err := yaml.Marshal(project(rows, al))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		if _, err := w.Write(yamlOutput); err != nil {
			return err
		}
	default:
		TableWriter(rows, al, cmd, w)
	}

	return nil
}

// project drops the attributes that are only there for filtering and sorting.
func project(rows []map[string]interface{}, al attrs.AttrList) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		p := make(map[string]interface{}, len(al))
		for _, attr := range al {
			if attr.Include {
				p[attr.OutputKey] = row[attr.OutputKey]
			}
		}
		out = append(out, p)
	}
	return out
}

func hasIncluded(al attrs.AttrList) bool {
	for _, a := range al {
		if a.Include {
			return true
		}
	}
	return false
}

// inferAttrs builds an AttrList from the scalar top-level keys of the first
// row, sorted by name. A global transform entry in the caller's list is lost,
// but there is nothing to apply it to anyway.
func inferAttrs(dataset gjson.Result) attrs.AttrList {
	rows := dataset.Array()
	if len(rows) == 0 {
		return nil
	}

	var keys []string
	rows[0].ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() && !value.IsArray() {
			keys = append(keys, key.String())
		}
		return true
	})
	sort.Strings(keys)

	var al attrs.AttrList
	for _, k := range keys {
		_ = al.Set("." + k)
	}
	return al
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(
	resultSet []map[string]interface{},
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2)
	log.Debugf("padding: %v", pad)

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range al {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range al {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// JSON numbers arrive as float64. Whole ones (ids, sols) print as
		// integers, coordinates keep their precision.
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
