package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Service keeps the durable history of marker updates.
type Service struct {
	repo ArchiveRepo
	trm  TxManager
	l    logger.Logger
}

func New(repo ArchiveRepo, trm TxManager, l logger.Logger) *Service {
	return &Service{repo: repo, trm: trm, l: l}
}

// Store saves the reading and the latest device state atomically.
func (s *Service) Store(ctx context.Context, update models.MarkerUpdate) error {
	const op = "Service.Store"
	ctx = wrap.WithAction(wrap.WithDeviceID(ctx, update.Marker.DeviceID), types.ActionArchiveReading)

	if strings.TrimSpace(update.Marker.DeviceID) == "" {
		return wrap.Error(ctx, fmt.Errorf("%s: %w: empty device id", op, types.ErrInvalidPayload))
	}
	if update.Marker.UpdatedAt.IsZero() {
		update.Marker.UpdatedAt = update.At
	}

	var id int64
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.UpsertDevice(ctx, update.Marker); err != nil {
			return err
		}

		var err error
		id, err = s.repo.InsertReading(ctx, update)
		return err
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.l.Debug(ctx, "reading archived", "reading_id", id, "percent", update.Marker.Percent)
	return nil
}

func (s *Service) Devices(ctx context.Context) ([]models.ArchivedDevice, error) {
	const op = "Service.Devices"

	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return devices, nil
}

// Readings returns the latest readings of a device, oldest first.
// limit outside [1, MaxLimit] falls back to DefaultLimit.
func (s *Service) Readings(ctx context.Context, deviceID string, limit int) ([]models.ArchivedReading, error) {
	const op = "Service.Readings"
	ctx = wrap.WithDeviceID(ctx, deviceID)

	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	exists, err := s.repo.DeviceExists(ctx, deviceID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if !exists {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDeviceNotFound))
	}

	readings, err := s.repo.ListReadings(ctx, deviceID, limit)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return readings, nil
}
