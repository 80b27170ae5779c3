// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/voyage/internal/attrs"
)

// Three Curiosity photos as the rover endpoint returns them, trimmed.
const photos = `[
	{"id": 102693, "sol": 1000, "earth_date": "2015-05-30",
	 "camera": {"id": 20, "name": "FHAZ", "full_name": "Front Hazard Avoidance Camera"},
	 "rover": {"id": 5, "name": "Curiosity", "status": "active", "cameras": ["FHAZ", "NAVCAM", "MAST"]}},
	{"id": 102850, "sol": 1000, "earth_date": "2015-05-30",
	 "camera": {"id": 21, "name": "RHAZ", "full_name": "Rear Hazard Avoidance Camera"},
	 "rover": {"id": 5, "name": "Curiosity", "status": "active", "cameras": ["FHAZ", "NAVCAM", "MAST"]}},
	{"id": 424905, "sol": 4000, "earth_date": "2023-11-16",
	 "camera": {"id": 26, "name": "NAVCAM", "full_name": "Navigation Camera"},
	 "rover": {"id": 5, "name": "Curiosity", "status": "active", "cameras": ["FHAZ", "NAVCAM", "MAST"]}}
]`

// Two EPIC frames.
const frames = `[
	{"identifier": "20240115001751", "image": "epic_1b_20240115001751", "date": "2024-01-15 00:13:03",
	 "centroid_coordinates": {"lat": 10.5, "lon": -140.25}},
	{"identifier": "20240115011751", "image": "epic_1b_20240115011751", "date": "2024-01-15 01:13:03",
	 "centroid_coordinates": {"lat": -3.25, "lon": 160}}
]`

func attrList(t *testing.T, spec string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set(spec))
	return al
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		delim string
		want  []Filter
	}{
		{name: "empty", spec: ""},
		{
			name: "camera equality",
			spec: "camera=NAVCAM",
			want: []Filter{{Key: "camera", Operand: "=", Target: "NAVCAM"}},
		},
		{
			name: "negated prefix on a nested path",
			spec: "rover.name!^Opp",
			want: []Filter{{Key: "rover.name", Negate: true, Operand: "^", Target: "Opp"}},
		},
		{
			name: "numeric pair",
			spec: "sol>999,sol<4000",
			want: []Filter{
				{Key: "sol", Operand: ">", Target: "999"},
				{Key: "sol", Operand: "<", Target: "4000"},
			},
		},
		{
			name: "regex target keeps its own operators",
			spec: "img_src/^https://.*\\.JPG$",
			want: []Filter{{Key: "img_src", Operand: "/", Target: "^https://.*\\.JPG$"}},
		},
		{
			name: "target may contain the operator characters",
			spec: "title=M31 = Andromeda",
			want: []Filter{{Key: "title", Operand: "=", Target: "M31 = Andromeda"}},
		},
		{
			name: "terms without an operator are dropped",
			spec: "media_type=video,hdurl,copyright@ESA",
			want: []Filter{
				{Key: "media_type", Operand: "=", Target: "video"},
				{Key: "copyright", Operand: "@", Target: "ESA"},
			},
		},
		{
			name:  "custom delimiter",
			spec:  "title@Nebula,Cluster|media_type=image",
			delim: "|",
			want: []Filter{
				{Key: "title", Operand: "@", Target: "Nebula,Cluster"},
				{Key: "media_type", Operand: "=", Target: "image"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delim != "" {
				t.Setenv("VOYAGE_FILTER_DELIM", tt.delim)
			}
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestFilter_Match(t *testing.T) {
	photo := gjson.Get(photos, "2")
	frame := gjson.Get(frames, "0")

	tests := []struct {
		name  string
		value gjson.Result
		term  string
		want  bool
	}{
		{"string equal", photo.Get("camera.name"), "x=NAVCAM", true},
		{"string equal is case sensitive", photo.Get("camera.name"), "x=navcam", false},
		{"string equal fold", photo.Get("camera.name"), "x~navcam", true},
		{"string prefix", photo.Get("camera.full_name"), "x^Navigation", true},
		{"string contains", photo.Get("camera.full_name"), "x@Camera", true},
		{"string negated contains", photo.Get("camera.full_name"), "x!@Hazard", true},
		{"string regex", photo.Get("earth_date"), "x/^2023-", true},
		{"string bad regex", photo.Get("earth_date"), "x/([", false},
		{"string ordering", photo.Get("earth_date"), "x>2020-01-01", true},

		{"bool as text", gjson.Parse(`{"hidden":true}`).Get("hidden"), "x=true", true},
		{"bool negated", gjson.Parse(`{"hidden":false}`).Get("hidden"), "x!=true", true},
		{"number equal", photo.Get("sol"), "x=4000", true},
		{"number equal ignores formatting", photo.Get("sol"), "x=4000.0", true},
		{"number greater", photo.Get("sol"), "x>3999", true},
		{"number negated less", photo.Get("sol"), "x!<1000", true},
		{"number with text target", photo.Get("sol"), "x=latest", false},
		{"number prefix uses the raw text", photo.Get("id"), "x^4249", true},
		{"number contains uses the raw text", photo.Get("id"), "x@905", true},
		{"negative float", frame.Get("centroid_coordinates.lon"), "x<-100", true},

		{"object never equals a scalar", photo.Get("camera"), "x=NAVCAM", false},
		{"object is unequal to any scalar", photo.Get("camera"), "x!=NAVCAM", true},
		{"object prefix", photo.Get("camera"), "x^NAV", false},
		{"object regex", frame.Get("centroid_coordinates"), "x/lat", false},
		{"object has key", frame.Get("centroid_coordinates"), "x@lat", true},
		{"object lacks key", frame.Get("centroid_coordinates"), "x@alt", false},
		{"object negated key", frame.Get("centroid_coordinates"), "x!@alt", true},
		{"array never equals a scalar", photo.Get("rover.cameras"), "x=MAST", false},
		{"array has element", photo.Get("rover.cameras"), "x@MAST", true},
		{"array lacks element", photo.Get("rover.cameras"), "x@CHEMCAM", false},
		{"array negated element", photo.Get("rover.cameras"), "x!@CHEMCAM", true},

		{"absent", photo.Get("camera.model"), "x=anything", false},
		{"absent negated", photo.Get("camera.model"), "x!=anything", false},
		{"null", gjson.Parse(`{"copyright":null}`).Get("copyright"), "x!=ESA", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildFilters(tt.term)
			require.Len(t, f, 1)
			assert.Equal(t, tt.want, f[0].Match(tt.value))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	marsAttrs := "id,sol,camera.name:camera,earth_date:date,rover.name:rover"

	tests := []struct {
		name    string
		doc     string
		attrs   string
		spec    string
		wantIDs []float64
	}{
		{
			name:    "no filter keeps every photo",
			doc:     photos,
			attrs:   marsAttrs,
			wantIDs: []float64{102693, 102850, 424905},
		},
		{
			name:    "output key resolves to its path",
			doc:     photos,
			attrs:   marsAttrs,
			spec:    "camera=NAVCAM",
			wantIDs: []float64{424905},
		},
		{
			name:    "raw nested path",
			doc:     photos,
			attrs:   "id",
			spec:    "camera.full_name@Hazard",
			wantIDs: []float64{102693, 102850},
		},
		{
			name:  "raw path to an object matches nothing",
			doc:   photos,
			attrs: "id",
			spec:  "camera=CHEMCAM",
		},
		{
			name:    "raw path to an array with contains",
			doc:     photos,
			attrs:   "id",
			spec:    "rover.cameras@NAVCAM,sol>1000",
			wantIDs: []float64{424905},
		},
		{
			name:    "every filter must hold",
			doc:     photos,
			attrs:   marsAttrs,
			spec:    "sol=1000,camera!=FHAZ",
			wantIDs: []float64{102850},
		},
		{
			name:    "blank key is ignored",
			doc:     photos,
			attrs:   "id",
			spec:    "=FHAZ",
			wantIDs: []float64{102693, 102850, 424905},
		},
		{
			name:  "unknown key matches nothing",
			doc:   photos,
			attrs: "id",
			spec:  "instrument=NAVCAM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := FilterDataset(gjson.Parse(tt.doc), attrList(t, tt.attrs), tt.spec)

			var ids []float64
			for _, r := range rows {
				ids = append(ids, r["id"].(float64))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterDataset_Projection(t *testing.T) {
	al := attrList(t, "image,centroid_coordinates.lat:lat,!centroid_coordinates.lon:lon")

	rows := FilterDataset(gjson.Parse(frames), al, "lon>0")
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]interface{}{
		"image": "epic_1b_20240115011751",
		"lat":   -3.25,
		"lon":   160.0,
	}, rows[0])
}

func TestFilterDataset_SingleObject(t *testing.T) {
	day := `{"date": "2024-01-15", "title": "The Cat's Eye Nebula", "media_type": "image"}`
	al := attrList(t, "date,title,media_type:type")

	assert.Len(t, FilterDataset(gjson.Parse(day), al, "type=image"), 1)
	assert.Empty(t, FilterDataset(gjson.Parse(day), al, "type=video"))
}
