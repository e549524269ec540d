package dto

import (
	"time"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
)

// Message is a frame pushed to map clients
type Message struct {
	Type      types.MessageType `json:"type"`
	Markers   []models.Marker   `json:"markers,omitempty"`
	Marker    *models.Marker    `json:"marker,omitempty"`
	DeviceID  string            `json:"device_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func Snapshot(markers []models.Marker, at time.Time) Message {
	return Message{Type: types.MessageSnapshot, Markers: markers, Timestamp: at}
}

func MarkerChanged(m models.Marker, at time.Time) Message {
	return Message{Type: types.MessageMarker, Marker: &m, DeviceID: m.DeviceID, Timestamp: at}
}

func MarkerRemoved(deviceID string, at time.Time) Message {
	return Message{Type: types.MessageRemoved, DeviceID: deviceID, Timestamp: at}
}
