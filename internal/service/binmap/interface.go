package binmap

import (
	"context"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

// UpdateListener is notified after a reading has been applied to the map.
type UpdateListener interface {
	OnMarkerUpdate(ctx context.Context, update models.MarkerUpdate) error
}

// RemovalListener is notified after an operator forgot a device.
type RemovalListener interface {
	OnMarkerRemoved(ctx context.Context, deviceID string) error
}

// AddressResolver reverse geocodes a marker position.
type AddressResolver interface {
	GetAddress(ctx context.Context, longitude, latitude float64) (string, error)
}
