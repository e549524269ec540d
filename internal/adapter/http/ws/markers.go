package wshandler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/smartrash/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/uuid"
	ws "github.com/Temutjin2k/smartrash/pkg/wsHub"
)

type MarkerSource interface {
	Markers() []models.Marker
}

// MarkerHub streams marker changes to every open map page.
type MarkerHub struct {
	connections *ws.ConnectionHub
	source      MarkerSource
	upgrader    websocket.Upgrader
	log         logger.Logger
}

func NewMarkerHub(connections *ws.ConnectionHub, source MarkerSource, log logger.Logger) *MarkerHub {
	return &MarkerHub{
		connections: connections,
		source:      source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the map page is public
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeMarkers upgrades the request, sends the current markers and then
// keeps the connection open for pushes until the client leaves.
//
// @Summary		Live marker stream
// @Description	WebSocket. First frame is a snapshot of all markers, then one frame per change.
// @Tags		markers
// @Success		101
// @Router		/ws/markers [get]
func (h *MarkerHub) ServeMarkers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_markers_connect")

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		h.log.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	id, err := uuid.New()
	if err != nil {
		h.log.Error(ctx, "failed to generate connection id", err)
		_ = raw.Close()
		return
	}

	conn := ws.NewConn(context.WithoutCancel(ctx), id, raw)
	// changes broadcast between Add and the snapshot wait behind it
	conn.Hold()
	if err := h.connections.Add(conn); err != nil {
		h.log.Error(ctx, "failed to register connection", err)
		_ = raw.Close()
		return
	}
	defer func() { _ = h.connections.Delete(id) }()

	if err := conn.SendFirst(dto.Snapshot(h.source.Markers(), time.Now().UTC())); err != nil {
		h.log.Warn(ctx, "failed to send snapshot", "conn_id", id.String(), "error", err.Error())
		return
	}

	h.log.Debug(ctx, "map client connected", "conn_id", id.String())

	if err := conn.Listen(nil); err != nil {
		h.log.Debug(ctx, "map client disconnected", "conn_id", id.String(), "reason", err.Error())
	}
}

func (h *MarkerHub) OnMarkerUpdate(_ context.Context, update models.MarkerUpdate) error {
	h.connections.Broadcast(dto.MarkerChanged(update.Marker, update.At))
	return nil
}

func (h *MarkerHub) OnMarkerRemoved(_ context.Context, deviceID string) error {
	h.connections.Broadcast(dto.MarkerRemoved(deviceID, time.Now().UTC()))
	return nil
}

// Close disconnects every client.
func (h *MarkerHub) Close() {
	h.connections.Close()
}
