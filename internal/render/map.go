package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/KaramelBytes/hospiviz-cli/internal/derive"
	"github.com/KaramelBytes/hospiviz-cli/internal/facility"
)

// MapOptions controls the marker map.
type MapOptions struct {
	// RadiusScale is the radius in pixels of the busiest facility (default 10).
	RadiusScale   float64
	IncludeRating bool
	// Zoom is the initial zoom level (default 6).
	Zoom int
	// FitBounds zooms to the extent of all markers instead of Zoom.
	FitBounds bool
	Title     string
	TileURL   string
}

const (
	markerColor       = "crimson"
	markerFillOpacity = 0.6
	defaultTileURL    = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	tileAttribution   = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
)

type marker struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Patients int     `json:"patients"`
	Radius   float64 `json:"radius"`
	Popup    string  `json:"popup"`
	Tooltip  string  `json:"tooltip"`
}

type mapView struct {
	Title       string
	Center      derive.Point
	Zoom        int
	Bounds      *derive.Bounds
	TileURL     string
	Attribution string
	Color       string
	FillOpacity float64
	Markers     []marker
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { width: 100%; height: 100%; margin: 0; padding: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map("map").setView([{{.Center.Lat}}, {{.Center.Lng}}], {{.Zoom}});
L.tileLayer({{.TileURL}}, {maxZoom: 19, attribution: {{.Attribution}}}).addTo(map);
var markers = {{.Markers}};
markers.forEach(function (m) {
  L.circleMarker([m.lat, m.lng], {
    radius: m.radius,
    color: {{.Color}},
    fill: true,
    fillColor: {{.Color}},
    fillOpacity: {{.FillOpacity}}
  }).bindPopup(m.popup).bindTooltip(m.tooltip).addTo(map);
});
{{- with .Bounds}}
map.fitBounds([[{{.SouthWest.Lat}}, {{.SouthWest.Lng}}], [{{.NorthEast.Lat}}, {{.NorthEast.Lng}}]]);
{{- end}}
</script>
</body>
</html>
`))

// Map writes a standalone Leaflet page with one circle marker per facility,
// centered on the mean coordinate.
func Map(w io.Writer, fs []facility.Facility, opt MapOptions) error {
	center, ok := derive.Center(fs)
	if !ok {
		return ErrNoFacilities
	}
	if opt.RadiusScale <= 0 {
		opt.RadiusScale = 10
	}
	if opt.Zoom <= 0 {
		opt.Zoom = 6
	}
	if opt.Title == "" {
		opt.Title = "Hospitals"
	}
	if opt.TileURL == "" {
		opt.TileURL = defaultTileURL
	}
	view := mapView{
		Title:       opt.Title,
		Center:      center,
		Zoom:        opt.Zoom,
		TileURL:     opt.TileURL,
		Attribution: tileAttribution,
		Color:       markerColor,
		FillOpacity: markerFillOpacity,
		Markers:     make([]marker, len(fs)),
	}
	if opt.FitBounds {
		if b, ok := derive.Extent(fs); ok {
			view.Bounds = &b
		}
	}
	radii := derive.Radii(fs, opt.RadiusScale)
	popup := derive.PopupOptions{IncludeRating: opt.IncludeRating}
	for i, f := range fs {
		view.Markers[i] = marker{
			Name:     f.Name,
			Lat:      f.Latitude,
			Lng:      f.Longitude,
			Patients: f.Visits,
			Radius:   radii[i],
			Popup:    derive.PopupText(f, popup),
			Tooltip:  derive.Tooltip(f),
		}
	}
	if err := mapTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}
