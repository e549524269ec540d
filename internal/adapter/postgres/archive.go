package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/metrics"
)

type ArchiveRepo struct {
	db      *pgxpool.Pool
	service string
}

func NewArchiveRepo(db *pgxpool.Pool, service string) *ArchiveRepo {
	return &ArchiveRepo{
		db:      db,
		service: service,
	}
}

// UpsertDevice stores the latest marker of a device and bumps its reading counter.
func (r *ArchiveRepo) UpsertDevice(ctx context.Context, marker models.Marker) (err error) {
	const op = "ArchiveRepo.UpsertDevice"
	defer r.observe("upsert_device", time.Now(), &err)

	query := `
		INSERT INTO bin_devices(device_id, lat, lng, percent, color, readings_count, first_seen_at, updated_at)
		VALUES($1, $2, $3, $4, $5, 1, $6, $6)
		ON CONFLICT (device_id) DO UPDATE SET
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			percent = EXCLUDED.percent,
			color = EXCLUDED.color,
			readings_count = bin_devices.readings_count + 1,
			updated_at = EXCLUDED.updated_at;`

	_, err = TxorDB(ctx, r.db).Exec(ctx, query,
		marker.DeviceID,
		marker.Position.Lat,
		marker.Position.Lng,
		marker.Percent,
		marker.Color,
		marker.UpdatedAt,
	)
	if err != nil {
		return r.fail(ctx, op, err)
	}
	return nil
}

// InsertReading appends one reading with the marker it produced.
func (r *ArchiveRepo) InsertReading(ctx context.Context, update models.MarkerUpdate) (id int64, err error) {
	const op = "ArchiveRepo.InsertReading"
	defer r.observe("insert_reading", time.Now(), &err)

	query := `
		INSERT INTO bin_readings(device_id, distance, lat, lat_scale, long, long_scale, gps_msg, source,
			percent, color, pos_lat, pos_lng, received_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id;`

	rd, m := update.Reading, update.Marker
	err = TxorDB(ctx, r.db).QueryRow(ctx, query,
		m.DeviceID,
		rd.Distance.Float64(),
		rd.Lat.Float64(),
		rd.LatScale.Float64(),
		rd.Long.Float64(),
		rd.LongScale.Float64(),
		rd.GPSMessage,
		string(rd.Source),
		m.Percent,
		m.Color,
		m.Position.Lat,
		m.Position.Lng,
		rd.ReceivedAt,
	).Scan(&id)
	if err != nil {
		return 0, r.fail(ctx, op, err)
	}
	return id, nil
}

func (r *ArchiveRepo) ListDevices(ctx context.Context) (devices []models.ArchivedDevice, err error) {
	const op = "ArchiveRepo.ListDevices"
	defer r.observe("list_devices", time.Now(), &err)

	query := `
		SELECT device_id, lat, lng, percent, color, readings_count, first_seen_at, updated_at
		FROM bin_devices
		ORDER BY device_id;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, r.fail(ctx, op, err)
	}
	defer rows.Close()

	devices = make([]models.ArchivedDevice, 0)
	for rows.Next() {
		var d models.ArchivedDevice
		if err = rows.Scan(&d.DeviceID, &d.Position.Lat, &d.Position.Lng, &d.Percent, &d.Color,
			&d.ReadingsCount, &d.FirstSeenAt, &d.UpdatedAt); err != nil {
			return nil, r.fail(ctx, op, err)
		}
		devices = append(devices, d)
	}
	if err = rows.Err(); err != nil {
		return nil, r.fail(ctx, op, err)
	}
	return devices, nil
}

// ListReadings returns the latest limit readings of a device, oldest first.
func (r *ArchiveRepo) ListReadings(ctx context.Context, deviceID string, limit int) (readings []models.ArchivedReading, err error) {
	const op = "ArchiveRepo.ListReadings"
	defer r.observe("list_readings", time.Now(), &err)

	query := `
		SELECT id, device_id, distance, lat, lat_scale, long, long_scale, gps_msg, source,
			percent, color, pos_lat, pos_lng, received_at
		FROM (
			SELECT * FROM bin_readings
			WHERE device_id = $1
			ORDER BY id DESC
			LIMIT $2
		) latest
		ORDER BY id;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, deviceID, limit)
	if err != nil {
		return nil, r.fail(ctx, op, err)
	}
	defer rows.Close()

	readings = make([]models.ArchivedReading, 0, limit)
	for rows.Next() {
		var (
			a                                        models.ArchivedReading
			distance, lat, latScale, long, longScale float64
			source                                   string
		)
		if err = rows.Scan(&a.ID, &a.Reading.ID, &distance, &lat, &latScale, &long, &longScale,
			&a.Reading.GPSMessage, &source, &a.Percent, &a.Color, &a.Position.Lat, &a.Position.Lng,
			&a.Reading.ReceivedAt); err != nil {
			return nil, r.fail(ctx, op, err)
		}
		a.Reading.Distance = models.Number(distance)
		a.Reading.Lat = models.Number(lat)
		a.Reading.LatScale = models.Number(latScale)
		a.Reading.Long = models.Number(long)
		a.Reading.LongScale = models.Number(longScale)
		a.Reading.Source = types.ReadingSource(source)
		readings = append(readings, a)
	}
	if err = rows.Err(); err != nil {
		return nil, r.fail(ctx, op, err)
	}
	return readings, nil
}

func (r *ArchiveRepo) DeviceExists(ctx context.Context, deviceID string) (exists bool, err error) {
	const op = "ArchiveRepo.DeviceExists"
	defer r.observe("device_exists", time.Now(), &err)

	query := `SELECT 1 FROM bin_devices WHERE device_id = $1;`

	var one int
	err = TxorDB(ctx, r.db).QueryRow(ctx, query, deviceID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, r.fail(ctx, op, err)
	}
	return true, nil
}

func (r *ArchiveRepo) observe(operation string, start time.Time, err *error) {
	metrics.RecordDatabaseQuery(r.service, operation, *err, time.Since(start))
}

func (r *ArchiveRepo) fail(ctx context.Context, op string, err error) error {
	ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
	return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrDatabaseFailed, err))
}
