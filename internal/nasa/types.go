// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nasa

// APOD is one Astronomy Picture of the Day.
type APOD struct {
	Copyright      string `json:"copyright,omitempty"`
	Date           string `json:"date"`
	Explanation    string `json:"explanation"`
	HDURL          string `json:"hdurl,omitempty"`
	MediaType      string `json:"media_type"`
	ServiceVersion string `json:"service_version,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
	Title          string `json:"title"`
	URL            string `json:"url"`
}

// IsVideo reports whether the entry is a video rather than an image.
func (a APOD) IsVideo() bool {
	return a.MediaType == "video"
}

type Camera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RoverID  int    `json:"rover_id"`
	FullName string `json:"full_name"`
}

type Rover struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LandingDate string `json:"landing_date"`
	LaunchDate  string `json:"launch_date"`
	Status      string `json:"status"`
}

type MarsPhoto struct {
	ID        int    `json:"id"`
	Sol       int    `json:"sol"`
	Camera    Camera `json:"camera"`
	ImgSrc    string `json:"img_src"`
	EarthDate string `json:"earth_date"`
	Rover     Rover  `json:"rover"`
}

// MarsPhotos is the envelope returned by the rover photos endpoint.
type MarsPhotos struct {
	Photos []MarsPhoto `json:"photos"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// EPICImage is one natural-color image from the DSCOVR EPIC camera.
type EPICImage struct {
	Identifier          string      `json:"identifier"`
	Caption             string      `json:"caption"`
	Image               string      `json:"image"`
	Version             string      `json:"version"`
	Date                string      `json:"date"`
	CentroidCoordinates Coordinates `json:"centroid_coordinates"`
}
