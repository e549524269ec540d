package types

import "errors"

var (
	ErrInvalidPayload = errors.New("invalid telemetry payload")
	ErrDeviceNotFound = errors.New("device not found")
	ErrNoReadings     = errors.New("no readings for device")
	ErrNotFound       = errors.New("requested item not found")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	ErrAddressLookupDisabled = errors.New("address lookup disabled")
	ErrPublishFailed         = errors.New("failed to publish marker event")
	ErrEventDropped          = errors.New("marker event dropped, outbox full")
	ErrDatabaseFailed        = errors.New("database operation failed")
)
