package handler

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/jszwec/csvutil"

	"github.com/Temutjin2k/smartrash/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/service/binmap"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/validator"
)

type MapService interface {
	Markers() []models.Marker
	Nearby(center models.Position, radius float64, limit int) []models.NearbyMarker
	Device(ctx context.Context, deviceID string) (models.DeviceDetails, error)
	History(ctx context.Context, deviceID string) ([]models.Reading, error)
	Stats() models.FleetStats
	Ingest(ctx context.Context, reading models.Reading) (models.MarkerUpdate, error)
	Forget(ctx context.Context, deviceID string) error
}

type Map struct {
	service MapService
	l       logger.Logger
}

func NewMap(service MapService, l logger.Logger) *Map {
	return &Map{
		service: service,
		l:       l,
	}
}

// ListMarkers godoc
// @Summary      Current markers
// @Description  One marker per device, ordered by device id
// @Tags         markers
// @Produce      json
// @Success      200  {object}  map[string][]models.Marker
// @Router       /api/markers [get]
func (h *Map) ListMarkers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_markers")

	markers := h.service.Markers()
	if err := writeJSON(w, http.StatusOK, envelope{"markers": markers, "count": len(markers)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// ListNearby godoc
// @Summary      Markers near a point
// @Description  Markers within radius meters of lat,lng, closest first. Used to plan a pickup route.
// @Tags         markers
// @Produce      json
// @Param        lat     query  number  true   "Latitude"
// @Param        lng     query  number  true   "Longitude"
// @Param        radius  query  number  false  "Radius in meters, 0 for any distance"
// @Param        limit   query  int     false  "Max markers (0..1000)"
// @Success      200  {object}  map[string][]models.NearbyMarker
// @Failure      422  {object}  map[string]any
// @Router       /api/markers/nearby [get]
func (h *Map) ListNearby(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_nearby_markers")

	q := dto.NearbyQuery{}
	v := validator.New()
	q.Parse(v, r.URL.Query())
	if q.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	markers := h.service.Nearby(models.Position{Lat: q.Lat, Lng: q.Lng}, q.Radius, q.Limit)
	if err := writeJSON(w, http.StatusOK, envelope{"markers": markers, "count": len(markers)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetDevice godoc
// @Summary      Device details
// @Description  Current marker of a device with its address when reverse geocoding is enabled
// @Tags         devices
// @Produce      json
// @Param        device_id  path  string  true  "Device ID"
// @Success      200  {object}  models.DeviceDetails
// @Failure      404  {object}  map[string]string
// @Router       /api/devices/{device_id} [get]
func (h *Map) GetDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")
	ctx := wrap.WithDeviceID(wrap.WithAction(r.Context(), "get_device"), deviceID)

	details, err := h.service.Device(ctx, deviceID)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to get device", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"device": details}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetHistory godoc
// @Summary      Device history
// @Description  Every reading the device sent since startup, in arrival order
// @Tags         devices
// @Produce      json
// @Param        device_id  path  string  true  "Device ID"
// @Success      200  {object}  map[string][]models.Reading
// @Failure      404  {object}  map[string]string
// @Router       /api/devices/{device_id}/history [get]
func (h *Map) GetHistory(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")
	ctx := wrap.WithDeviceID(wrap.WithAction(r.Context(), "get_history"), deviceID)

	readings, err := h.service.History(ctx, deviceID)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to get history", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"device_id": deviceID, "readings": readings}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetHistoryCSV godoc
// @Summary      Device history as CSV
// @Tags         devices
// @Produce      text/csv
// @Param        device_id  path  string  true  "Device ID"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]string
// @Router       /api/devices/{device_id}/history.csv [get]
func (h *Map) GetHistoryCSV(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")
	ctx := wrap.WithDeviceID(wrap.WithAction(r.Context(), "get_history_csv"), deviceID)

	readings, err := h.service.History(ctx, deviceID)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to get history", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvFileName(deviceID)+`"`)

	cw := csv.NewWriter(w)
	if err := csvutil.NewEncoder(cw).Encode(readings); err != nil {
		h.l.Error(ctx, "failed to encode csv", err)
		internalErrorResponse(w, err.Error())
		return
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.l.Error(ctx, "failed to write csv", err)
	}
}

// GetStats godoc
// @Summary      Fleet statistics
// @Description  Fill level summary over all visible markers; alert_devices are nearly full
// @Tags         markers
// @Produce      json
// @Success      200  {object}  models.FleetStats
// @Router       /api/stats [get]
func (h *Map) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_stats")

	if err := writeJSON(w, http.StatusOK, envelope{"stats": h.service.Stats()}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// PostReading godoc
// @Summary      Inject a reading
// @Description  Runs a reading through the same pipeline as broker messages
// @Tags         operator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        reading  body  dto.ReadingReq  true  "Reading"
// @Success      201  {object}  dto.ReadingResp
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]any
// @Router       /api/readings [post]
func (h *Map) PostReading(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "post_reading")

	var req dto.ReadingReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	update, err := h.service.Ingest(ctx, req.ToModel())
	if err != nil {
		var verr *binmap.ValidationError
		if errors.As(err, &verr) {
			failedValidationResponse(w, verr.Fields)
			return
		}
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to ingest reading", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	resp := dto.ReadingResp{Marker: update.Marker, Replaced: update.Replaced}
	if err := writeJSON(w, http.StatusCreated, envelope{"result": resp}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(wrap.WithDeviceID(ctx, update.Marker.DeviceID), "reading injected by operator")
}

// DeleteDevice godoc
// @Summary      Forget a device
// @Description  Removes the marker and the history of a device
// @Tags         operator
// @Produce      json
// @Security     BearerAuth
// @Param        device_id  path  string  true  "Device ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/devices/{device_id} [delete]
func (h *Map) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")
	ctx := wrap.WithDeviceID(wrap.WithAction(r.Context(), "delete_device"), deviceID)

	if err := h.service.Forget(ctx, deviceID); err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to forget device", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"device_id": deviceID, "status": "removed"}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func csvFileName(deviceID string) string {
	safe := make([]rune, 0, len(deviceID))
	for _, r := range deviceID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			safe = append(safe, r)
		default:
			safe = append(safe, '_')
		}
	}
	return "bin-" + string(safe) + "-history.csv"
}
