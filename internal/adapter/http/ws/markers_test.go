package wshandler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/smartrash/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	ws "github.com/Temutjin2k/smartrash/pkg/wsHub"
)

type staticSource []models.Marker

func (s staticSource) Markers() []models.Marker { return s }

// racingSource broadcasts a change while the snapshot is being collected.
type racingSource struct {
	hub *MarkerHub
}

func (s *racingSource) Markers() []models.Marker {
	_ = s.hub.OnMarkerUpdate(context.Background(), models.MarkerUpdate{
		Marker: models.Marker{DeviceID: "b", Percent: 80},
		At:     time.Now(),
	})
	return nil
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func read(t *testing.T, c *websocket.Conn) dto.Message {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg dto.Message
	if err := c.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestMarkerHub_SnapshotThenChanges(t *testing.T) {
	log := logger.New(io.Discard, "test", "ERROR")
	source := staticSource{{DeviceID: "a", Percent: 50, Color: "#fffa00"}}
	hub := NewMarkerHub(ws.NewConnHub("test", log), source, log)
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeMarkers))
	t.Cleanup(srv.Close)

	c := dial(t, srv)

	snap := read(t, c)
	if snap.Type != types.MessageSnapshot || len(snap.Markers) != 1 || snap.Markers[0].DeviceID != "a" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	err := hub.OnMarkerUpdate(context.Background(), models.MarkerUpdate{
		Marker: models.Marker{DeviceID: "b", Percent: 10, Color: "#ff3200"},
		At:     time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	msg := read(t, c)
	if msg.Type != types.MessageMarker || msg.Marker == nil || msg.Marker.DeviceID != "b" {
		t.Fatalf("unexpected marker frame: %+v", msg)
	}

	if err := hub.OnMarkerRemoved(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	msg = read(t, c)
	if msg.Type != types.MessageRemoved || msg.DeviceID != "a" {
		t.Fatalf("unexpected removal frame: %+v", msg)
	}
}

func TestMarkerHub_BroadcastReachesEveryClient(t *testing.T) {
	log := logger.New(io.Discard, "test", "ERROR")
	connections := ws.NewConnHub("test", log)
	hub := NewMarkerHub(connections, staticSource{}, log)
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeMarkers))
	t.Cleanup(srv.Close)

	clients := []*websocket.Conn{dial(t, srv), dial(t, srv)}
	for _, c := range clients {
		if msg := read(t, c); msg.Type != types.MessageSnapshot {
			t.Fatalf("expected snapshot first, got %s", msg.Type)
		}
	}
	if connections.Len() != 2 {
		t.Fatalf("expected 2 registered connections, got %d", connections.Len())
	}

	_ = hub.OnMarkerUpdate(context.Background(), models.MarkerUpdate{Marker: models.Marker{DeviceID: "x"}})
	for _, c := range clients {
		if msg := read(t, c); msg.Marker == nil || msg.Marker.DeviceID != "x" {
			t.Fatalf("unexpected frame: %+v", msg)
		}
	}
}

func TestMarkerHub_RejectsPlainHTTP(t *testing.T) {
	log := logger.New(io.Discard, "test", "ERROR")
	hub := NewMarkerHub(ws.NewConnHub("test", log), staticSource{}, log)

	rec := httptest.NewRecorder()
	hub.ServeMarkers(rec, httptest.NewRequest(http.MethodGet, "/ws/markers", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-upgrade request, got %d", rec.Code)
	}
}

func TestMarkerHub_ChangeDuringSnapshotArrivesAfterIt(t *testing.T) {
	log := logger.New(io.Discard, "test", "ERROR")
	source := &racingSource{}
	hub := NewMarkerHub(ws.NewConnHub("test", log), source, log)
	source.hub = hub
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeMarkers))
	t.Cleanup(srv.Close)

	c := dial(t, srv)

	first := read(t, c)
	if first.Type != types.MessageSnapshot {
		t.Fatalf("first frame must be the snapshot, got %s", first.Type)
	}
	second := read(t, c)
	if second.Type != types.MessageMarker || second.Marker == nil || second.Marker.DeviceID != "b" {
		t.Fatalf("the change must follow the snapshot, got %+v", second)
	}
}
