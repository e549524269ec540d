package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/validator"
)

const (
	defaultReadingsLimit = 100
	maxReadingsLimit     = 1000
)

type ArchiveService interface {
	Devices(ctx context.Context) ([]models.ArchivedDevice, error)
	Readings(ctx context.Context, deviceID string, limit int) ([]models.ArchivedReading, error)
}

type Archive struct {
	service ArchiveService
	l       logger.Logger
}

func NewArchive(service ArchiveService, l logger.Logger) *Archive {
	return &Archive{
		service: service,
		l:       l,
	}
}

// ListDevices godoc
// @Summary      Archived devices
// @Description  Latest archived state of every device
// @Tags         archive
// @Produce      json
// @Success      200  {object}  map[string][]models.ArchivedDevice
// @Router       /archive/devices [get]
func (h *Archive) ListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_archived_devices")

	devices, err := h.service.Devices(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list devices", err)
		errorResponse(w, GetCode(err), "failed to list devices")
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"devices": devices}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// ListReadings godoc
// @Summary      Archived readings
// @Description  Most recent archived readings of a device, oldest first
// @Tags         archive
// @Produce      json
// @Param        device_id  path   string  true   "Device ID"
// @Param        limit      query  int     false  "Max readings (1..1000, default 100)"
// @Success      200  {object}  map[string][]models.ArchivedReading
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]any
// @Router       /archive/devices/{device_id}/readings [get]
func (h *Archive) ListReadings(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("device_id")
	ctx := wrap.WithDeviceID(wrap.WithAction(r.Context(), "list_archived_readings"), deviceID)

	limit := defaultReadingsLimit
	v := validator.New()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		v.Check(err == nil, "limit", "must be an integer")
		v.Check(err != nil || (n >= 1 && n <= maxReadingsLimit), "limit", "must be between 1 and 1000")
		limit = n
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	readings, err := h.service.Readings(ctx, deviceID, limit)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to list readings", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"device_id": deviceID, "readings": readings}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
