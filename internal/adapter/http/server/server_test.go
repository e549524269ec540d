package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Temutjin2k/smartrash/config"
	"github.com/Temutjin2k/smartrash/internal/adapter/http/web"
	wshandler "github.com/Temutjin2k/smartrash/internal/adapter/http/ws"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/internal/service/auth"
	"github.com/Temutjin2k/smartrash/internal/service/binmap"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	ws "github.com/Temutjin2k/smartrash/pkg/wsHub"
)

func newMapAPI(t *testing.T) (*API, *auth.TokenService) {
	t.Helper()
	log := logger.New(io.Discard, "test", "ERROR")

	svc := binmap.New(binmap.Config{MaxDistance: 100, AlertPercent: 20, LegacyLongitudeScale: true}, binmap.NewTracker(), nil, log)
	hub := wshandler.NewMarkerHub(ws.NewConnHub("test", log), svc, log)
	page, err := web.NewPage(web.PageConfig{Title: "bins", CenterLat: 31.7, CenterLng: 35.2, Zoom: 15, StreamPath: "/ws/markers"}, log)
	if err != nil {
		t.Fatal(err)
	}
	tokens := auth.NewTokenService("secret", time.Hour)

	cfg := config.Config{Mode: types.MapService, Services: config.ServicesConfig{MapService: "0"}}
	api, err := New(cfg, Deps{MapService: svc, Markers: hub, Page: page, Auth: tokens}, log)
	if err != nil {
		t.Fatal(err)
	}
	return api, tokens
}

func serve(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMapRoutes(t *testing.T) {
	api, tokens := newMapAPI(t)
	h := api.Handler()

	for _, target := range []string{"/", "/api/markers", "/api/stats", "/health", "/metrics"} {
		if rec := serve(h, http.MethodGet, target, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: %d %s", target, rec.Code, rec.Body.String())
		}
	}

	if rec := serve(h, http.MethodGet, "/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path must 404, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/archive/devices", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("archive routes must not exist in map mode, got %d", rec.Code)
	}

	reading := `{"id":"7","distance":50,"lat":3150,"lat_scale":1,"long":5300,"long_scale":1}`
	if rec := serve(h, http.MethodPost, "/api/readings", reading, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous post must be 401, got %d", rec.Code)
	}

	viewer, _, err := tokens.Issue(context.Background(), "guest", types.RoleViewer)
	if err != nil {
		t.Fatal(err)
	}
	if rec := serve(h, http.MethodPost, "/api/readings", reading, viewer); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer post must be 403, got %d", rec.Code)
	}

	operator, _, err := tokens.Issue(context.Background(), "ops", types.RoleOperator)
	if err != nil {
		t.Fatal(err)
	}
	rec := serve(h, http.MethodPost, "/api/readings", reading, operator)
	if rec.Code != http.StatusCreated {
		t.Fatalf("operator post: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("every response must carry a request id")
	}

	if rec := serve(h, http.MethodGet, "/api/devices/7", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("device must exist after the post, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodDelete, "/api/devices/7", "", operator); rec.Code >= 300 {
		t.Fatalf("delete: %d", rec.Code)
	}
}

func TestNew_Validation(t *testing.T) {
	log := logger.New(io.Discard, "test", "ERROR")

	if _, err := New(config.Config{Mode: types.MapService}, Deps{}, log); err == nil {
		t.Fatalf("map mode without a map service must fail")
	}
	if _, err := New(config.Config{Mode: types.ArchiveService}, Deps{}, log); err == nil {
		t.Fatalf("archive mode without an archive service must fail")
	}
	if _, err := New(config.Config{Mode: "ride-service"}, Deps{}, log); err == nil {
		t.Fatalf("unknown mode must fail")
	}
}
