package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
	"github.com/Temutjin2k/smartrash/pkg/metrics"
	"github.com/Temutjin2k/smartrash/pkg/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub keeps every live WebSocket connection of a service.
type ConnectionHub struct {
	service string
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(service string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		service: service,
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection. A connection with the same id is closed and replaced.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[newConn.id]; ok {
		ctx := wrap.WithAction(context.Background(), "add_ws_connection")
		h.l.Warn(ctx, "replacing existing connection", "conn_id", existing.id.String())
		_ = existing.Close()
	}

	h.clients[newConn.id] = newConn
	metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Set(float64(len(h.clients)))

	return nil
}

// Delete closes and forgets a connection.
func (h *ConnectionHub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Set(float64(len(h.clients)))
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		ctx := wrap.WithAction(context.Background(), "ws_connection_delete")
		h.l.Debug(ctx, "failed to close conn", "conn_id", id.String(), "error", err.Error())
	}
	return nil
}

// SendTo sends msg to one connection.
func (h *ConnectionHub) SendTo(id uuid.UUID, msg any) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	return conn.Send(msg)
}

// Broadcast sends msg to every connection and drops the ones that fail.
// It returns the number of connections that received msg.
func (h *ConnectionHub) Broadcast(msg any) int {
	h.mu.Lock()
	clients := make([]*Conn, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range clients {
		if err := c.Send(msg); err != nil {
			ctx := wrap.WithAction(context.Background(), "ws_broadcast")
			h.l.Debug(ctx, "dropping dead connection", "conn_id", c.id.String(), "error", err.Error())
			_ = h.Delete(c.id)
			continue
		}
		sent++
	}
	return sent
}

func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every connection.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}

	h.l.Info(ctx, "all websocket connections closed")
}
