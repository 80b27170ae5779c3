// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	apodDay = `{"date": "2024-01-15", "title": "The Cat's Eye Nebula", "media_type": "image",
		"copyright": null, "hd*url": "https://apod.nasa.gov/cat_hd.jpg"}`

	apodWeek = `[{"date": "2024-01-01", "title": "first"}, {"date": "2024-01-02", "title": "second"}]`

	marsSol = `{"photos": [
		{"id": 1, "camera": {"name": "FHAZ"}, "rover": {"name": "Curiosity",
			"cameras": [{"name": "FHAZ"}, {"name": "RHAZ"}, {"name": "CHEMCAM"}]}},
		{"id": 2, "camera": {"name": "NAVCAM"}, "rover": {"name": "Curiosity",
			"cameras": [{"name": "FHAZ"}, {"name": "RHAZ"}, {"name": "CHEMCAM"}]}}
	]}`

	marsOnePhoto = `{"photos": [{"id": 7, "camera": {"name": "MAST"}, "rover": {"name": "Perseverance"}}]}`

	epicFrames = `[
		{"image": "epic_1b_1", "centroid_coordinates": {"lat": 10.5, "lon": -140.25}},
		{"image": "epic_1b_2", "centroid_coordinates": {"lat": -3.25, "lon": 160}}
	]`

	epicOneFrame = `[{"image": "epic_1b_1", "centroid_coordinates": {"lat": 10.5, "lon": -140.25}}]`
)

func TestDriller(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		// want is the raw JSON of the result; "" means it must not resolve.
		want string
	}{
		{name: "top level string", doc: apodDay, path: "title", want: `"The Cat's Eye Nebula"`},
		{name: "leading dot", doc: apodDay, path: ".media_type", want: `"image"`},
		{name: "null stays null", doc: apodDay, path: "copyright", want: `null`},
		{name: "wildcards are literal", doc: apodDay, path: "hd*url", want: `"https://apod.nasa.gov/cat_hd.jpg"`},
		{name: "missing key", doc: apodDay, path: "hdurl"},
		{name: "missing nested key", doc: apodDay, path: "title.length"},

		{name: "range mapped across days", doc: apodWeek, path: "date", want: `["2024-01-01","2024-01-02"]`},
		{name: "range indexed day", doc: apodWeek, path: "[1].title"},

		{name: "indexed photo", doc: marsSol, path: "photos[1].camera.name", want: `"NAVCAM"`},
		{name: "indexed photo then indexed camera", doc: marsSol, path: "photos[0].rover.cameras[2].name", want: `"CHEMCAM"`},
		{name: "camera mapped across photos", doc: marsSol, path: "photos.camera.name", want: `["FHAZ","NAVCAM"]`},
		{name: "ids mapped across photos", doc: marsSol, path: "photos.id", want: `[1,2]`},
		{name: "key missing from every photo", doc: marsSol, path: "photos.camera.model"},
		{name: "index past the end", doc: marsSol, path: "photos[2].id"},
		{name: "negative index", doc: marsSol, path: "photos[-1].id"},
		{name: "malformed index is part of the key", doc: marsSol, path: "photos[x].id"},

		{name: "single photo is drilled through", doc: marsOnePhoto, path: "photos.camera.name", want: `"MAST"`},
		{name: "single photo unwrapped", doc: marsOnePhoto, path: "photos.rover", want: `{"name": "Perseverance"}`},

		{name: "epic coordinates mapped", doc: epicFrames, path: "centroid_coordinates.lat", want: `[10.5,-3.25]`},
		{name: "epic single frame", doc: epicOneFrame, path: "centroid_coordinates.lon", want: `-140.25`},
		{name: "epic single frame object", doc: epicOneFrame, path: "centroid_coordinates",
			want: `{"lat": 10.5, "lon": -140.25}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Driller(tt.doc, tt.path)
			if tt.want == "" {
				assert.False(t, got.Exists(), "resolved to %s", got.Raw)
				return
			}
			assert.JSONEq(t, tt.want, got.Raw)
		})
	}
}

func TestDriller_EmptyPath(t *testing.T) {
	got := Driller(epicOneFrame, "")
	assert.Equal(t, "epic_1b_1", got.Get("image").String(), "a single element root is unwrapped")

	got = Driller(apodDay, "")
	assert.Equal(t, "2024-01-15", got.Get("date").String())
}

func TestSplitIndex(t *testing.T) {
	tests := []struct {
		segment  string
		name     string
		index    int
		hasIndex bool
	}{
		{"photos", "photos", 0, false},
		{"photos[3]", "photos", 3, true},
		{"cameras[-1]", "cameras", -1, true},
		{"photos[]", "photos[]", 0, false},
		{"[2]", "[2]", 0, false},
		{"photos[two]", "photos[two]", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			name, index, ok := splitIndex(tt.segment)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.hasIndex, ok)
		})
	}
}

func BenchmarkDriller(b *testing.B) {
	paths := map[string]string{
		"mapped":  "photos.camera.name",
		"indexed": "photos[1].rover.cameras[2].name",
	}

	for name, path := range paths {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Driller(marsSol, path)
			}
		})
	}
}
