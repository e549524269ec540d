package binmap

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/internal/service/calculator"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/metrics"
	"github.com/Temutjin2k/smartrash/pkg/validator"
)

const maxDeviceIDLength = 64

type Config struct {
	// MaxDistance is the sensor range; longer readings are clamped to it.
	MaxDistance float64
	// AlertPercent marks bins at or below this fill percentage in the fleet stats.
	AlertPercent         float64
	LegacyLongitudeScale bool
}

// Service turns telemetry readings into map markers.
type Service struct {
	cfg      Config
	tracker  *Tracker
	decoder  CoordinateDecoder
	resolver AddressResolver

	mu       sync.RWMutex
	updates  []UpdateListener
	removals []RemovalListener

	now func() time.Time
	log logger.Logger
}

// New creates the map service. resolver may be nil, then devices have no address.
func New(cfg Config, tracker *Tracker, resolver AddressResolver, log logger.Logger) *Service {
	return &Service{
		cfg:      cfg,
		tracker:  tracker,
		decoder:  CoordinateDecoder{LegacyLongitudeScale: cfg.LegacyLongitudeScale},
		resolver: resolver,
		now:      time.Now,
		log:      log,
	}
}

// OnUpdate registers a listener for accepted readings.
func (s *Service) OnUpdate(l UpdateListener) {
	s.mu.Lock()
	s.updates = append(s.updates, l)
	s.mu.Unlock()
}

// OnRemoval registers a listener for forgotten devices.
func (s *Service) OnRemoval(l RemovalListener) {
	s.mu.Lock()
	s.removals = append(s.removals, l)
	s.mu.Unlock()
}

// HandleMessage decodes one broker payload and applies it to the map.
// A bad payload fails this message only.
func (s *Service) HandleMessage(ctx context.Context, payload []byte) (models.MarkerUpdate, error) {
	const op = "Service.HandleMessage"
	ctx = wrap.WithAction(ctx, types.ActionHandleReading)

	var reading models.Reading
	if err := json.Unmarshal(payload, &reading); err != nil {
		metrics.RecordReading(string(types.SourceMQTT), err)
		return models.MarkerUpdate{}, wrap.Error(ctx, fmt.Errorf("%s: %w: %v", op, types.ErrInvalidPayload, err))
	}
	reading.Source = types.SourceMQTT

	return s.Ingest(ctx, reading)
}

// Ingest validates a reading and installs its marker.
func (s *Service) Ingest(ctx context.Context, reading models.Reading) (models.MarkerUpdate, error) {
	const op = "Service.Ingest"
	ctx = wrap.WithDeviceID(ctx, reading.ID)

	if reading.Source == "" {
		reading.Source = types.SourceOperator
	}

	v := validator.New()
	ValidateReading(v, reading)
	if !v.Valid() {
		err := &ValidationError{Fields: v.Errors}
		metrics.RecordReading(string(reading.Source), err)
		return models.MarkerUpdate{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if reading.ReceivedAt.IsZero() {
		reading.ReceivedAt = s.now().UTC()
	}

	percent := FillPercentage(reading.Distance.Float64(), s.cfg.MaxDistance)
	icon := MarkerIcon(percent)

	marker, replaced := s.tracker.Apply(reading, models.Marker{
		Position:  s.decoder.Decode(reading),
		Distance:  reading.Distance.Float64(),
		Percent:   percent,
		Color:     icon.FillColor,
		Icon:      icon,
		UpdatedAt: reading.ReceivedAt,
	})

	update := models.MarkerUpdate{
		Marker:   marker,
		Reading:  reading,
		Replaced: replaced,
		At:       reading.ReceivedAt,
	}

	metrics.RecordReading(string(reading.Source), nil)
	metrics.FillPercentHistogram.Observe(percent)
	metrics.ActiveMarkersGauge.Set(float64(s.tracker.Len()))

	s.log.Debug(ctx, "marker updated",
		"percent", percent,
		"color", marker.Color,
		"lat", marker.Position.Lat,
		"lng", marker.Position.Lng,
		"replaced", replaced,
	)

	s.notifyUpdate(ctx, update)

	return update, nil
}

func (s *Service) notifyUpdate(ctx context.Context, update models.MarkerUpdate) {
	s.mu.RLock()
	listeners := slices.Clone(s.updates)
	s.mu.RUnlock()

	for _, l := range listeners {
		if err := l.OnMarkerUpdate(ctx, update); err != nil {
			s.log.Warn(wrap.ErrorCtx(ctx, err), "marker listener failed", "error", err.Error())
		}
	}
}

// Markers returns all visible markers.
func (s *Service) Markers() []models.Marker {
	return s.tracker.Markers()
}

// Device returns the marker of a device with its address when a resolver is configured.
func (s *Service) Device(ctx context.Context, deviceID string) (models.DeviceDetails, error) {
	const op = "Service.Device"
	ctx = wrap.WithDeviceID(ctx, deviceID)

	marker, ok := s.tracker.Marker(deviceID)
	if !ok {
		return models.DeviceDetails{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDeviceNotFound))
	}

	details := models.DeviceDetails{Marker: marker}
	if s.resolver == nil {
		return details, nil
	}

	address, err := s.resolver.GetAddress(ctx, marker.Position.Lng, marker.Position.Lat)
	if err != nil {
		// the marker is still useful without an address
		s.log.Warn(wrap.ErrorCtx(ctx, err), "address lookup failed", "error", err.Error())
		return details, nil
	}
	details.Address = address

	return details, nil
}

// History returns the readings of a device in arrival order.
func (s *Service) History(ctx context.Context, deviceID string) ([]models.Reading, error) {
	const op = "Service.History"

	readings, ok := s.tracker.History(deviceID)
	if !ok {
		ctx = wrap.WithDeviceID(ctx, deviceID)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDeviceNotFound))
	}
	return readings, nil
}

// Forget removes the marker and the history of a device.
func (s *Service) Forget(ctx context.Context, deviceID string) error {
	const op = "Service.Forget"
	ctx = wrap.WithDeviceID(ctx, deviceID)

	if !s.tracker.Forget(deviceID) {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDeviceNotFound))
	}
	metrics.ActiveMarkersGauge.Set(float64(s.tracker.Len()))

	s.mu.RLock()
	listeners := slices.Clone(s.removals)
	s.mu.RUnlock()

	for _, l := range listeners {
		if err := l.OnMarkerRemoved(ctx, deviceID); err != nil {
			s.log.Warn(wrap.ErrorCtx(ctx, err), "removal listener failed", "error", err.Error())
		}
	}

	s.log.Info(ctx, "device forgotten")
	return nil
}

// Nearby returns the markers within radius meters of center, closest first.
func (s *Service) Nearby(center models.Position, radius float64, limit int) []models.NearbyMarker {
	return calculator.Nearest(s.tracker.Markers(), center, radius, limit)
}

// Stats summarizes the fill level of the visible markers.
func (s *Service) Stats() models.FleetStats {
	return FleetStats(s.tracker.Markers(), s.cfg.AlertPercent)
}

// ValidateReading checks the fields the marker computation depends on.
func ValidateReading(v *validator.Validator, r models.Reading) {
	v.Check(strings.TrimSpace(r.ID) != "", "id", "must be provided")
	v.Check(len(r.ID) <= maxDeviceIDLength, "id", fmt.Sprintf("must not be more than %d characters", maxDeviceIDLength))

	v.Check(finite(r.Distance), "distance", "must be a finite number")
	v.Check(r.Distance >= 0, "distance", "must not be negative")

	v.Check(finite(r.Lat), "lat", "must be a finite number")
	v.Check(finite(r.Long), "long", "must be a finite number")

	v.Check(finite(r.LatScale) && r.LatScale != 0, "lat_scale", "must be a non-zero number")
	v.Check(finite(r.LongScale) && r.LongScale != 0, "long_scale", "must be a non-zero number")
}

func finite(n models.Number) bool {
	f := n.Float64()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidationError lists the fields a reading failed on.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", types.ErrInvalidPayload, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return types.ErrInvalidPayload
}
