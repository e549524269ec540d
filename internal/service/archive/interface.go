package archive

import (
	"context"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

type ArchiveRepo interface {
	UpsertDevice(ctx context.Context, marker models.Marker) error
	InsertReading(ctx context.Context, update models.MarkerUpdate) (int64, error)
	ListDevices(ctx context.Context) ([]models.ArchivedDevice, error)
	ListReadings(ctx context.Context, deviceID string, limit int) ([]models.ArchivedReading, error)
	DeviceExists(ctx context.Context, deviceID string) (bool, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
