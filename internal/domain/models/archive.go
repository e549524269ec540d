package models

import "time"

// ArchivedReading is a reading as stored by the archive service
type ArchivedReading struct {
	ID       int64    `json:"id"`
	Reading  Reading  `json:"reading"`
	Percent  float64  `json:"percent"`
	Color    string   `json:"color"`
	Position Position `json:"position"`
}

// ArchivedDevice is the latest known state of a device in the archive
type ArchivedDevice struct {
	DeviceID      string    `json:"device_id"`
	Position      Position  `json:"position"`
	Percent       float64   `json:"percent"`
	Color         string    `json:"color"`
	ReadingsCount int64     `json:"readings_count"`
	FirstSeenAt   time.Time `json:"first_seen_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
