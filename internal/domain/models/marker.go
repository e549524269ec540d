package models

import (
	"fmt"
	"time"
)

// Position is a decoded location in decimal degrees
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RGB is a marker fill color, every channel in [0, 255]
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex formats the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v int) int {
	return min(255, max(0, v))
}

// Point is a pixel offset inside the marker icon
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Icon describes how the map page draws a marker
type Icon struct {
	Path         string  `json:"path"`
	FillColor    string  `json:"fillColor"`
	FillOpacity  float64 `json:"fillOpacity"`
	StrokeWeight float64 `json:"strokeWeight"`
	Rotation     float64 `json:"rotation"`
	Scale        float64 `json:"scale"`
	Anchor       Point   `json:"anchor"`
}

// Marker is the single visible pin of a device
type Marker struct {
	DeviceID  string    `json:"device_id"`
	Position  Position  `json:"position"`
	Distance  float64   `json:"distance"`
	Percent   float64   `json:"percent"`
	Color     string    `json:"color"`
	Icon      Icon      `json:"icon"`
	Readings  int       `json:"readings"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarkerUpdate is emitted for every accepted reading
type MarkerUpdate struct {
	Marker   Marker    `json:"marker"`
	Reading  Reading   `json:"reading"`
	Replaced bool      `json:"replaced"`
	At       time.Time `json:"timestamp"`
}

// DeviceDetails is a marker enriched with a human readable address
type DeviceDetails struct {
	Marker  Marker `json:"marker"`
	Address string `json:"address,omitempty"`
}

// NearbyMarker is a marker with its distance from a reference point
type NearbyMarker struct {
	Marker         Marker  `json:"marker"`
	DistanceMeters float64 `json:"distance_meters"`
}
