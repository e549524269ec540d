package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
	"github.com/Temutjin2k/smartrash/pkg/logger"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

type fakeAuth map[string]*models.Operator

func (f fakeAuth) RoleCheck(_ context.Context, token string) (*models.Operator, error) {
	if op, ok := f[token]; ok {
		return op, nil
	}
	return nil, types.ErrInvalidToken
}

func newTestMiddleware() *Middleware {
	return NewMiddleware(fakeAuth{
		"op":     {Subject: "alice", Role: types.RoleOperator},
		"viewer": {Subject: "bob", Role: types.RoleViewer},
	}, logger.New(io.Discard, "test", "ERROR"))
}

func TestAuthAndRequireRoles(t *testing.T) {
	m := newTestMiddleware()
	protected := m.Auth(m.RequireRoles(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, models.OperatorFromContext(r.Context()).Subject)
	}, types.RoleOperator))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"malformed header", "Token op", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer viewer", http.StatusForbidden},
		{"operator", "Bearer op", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/devices/a", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusOK && rec.Body.String() != "alice" {
				t.Fatalf("operator not injected: %q", rec.Body.String())
			}
		})
	}
}

func TestAuth_NoServiceMeansAnonymous(t *testing.T) {
	m := NewMiddleware(nil, logger.New(io.Discard, "test", "ERROR"))
	h := m.Auth(m.RequireRoles(func(w http.ResponseWriter, r *http.Request) {}, types.RoleOperator))

	req := httptest.NewRequest(http.MethodPost, "/api/readings", nil)
	req.Header.Set("Authorization", "Bearer op")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when auth is disabled, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	m := newTestMiddleware()
	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = wrap.FromContext(r.Context()).RequestID
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("generated id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc" {
		t.Fatalf("caller id must be reused, got %q", seen)
	}
}

func TestRecover(t *testing.T) {
	m := newTestMiddleware()
	h := m.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/api/markers":                "/api/markers",
		"/api/devices/42":             "/api/devices/{device_id}",
		"/api/devices/42/history.csv": "/api/devices/{device_id}/history.csv",
		"/archive/devices":            "/archive/devices",
		"/archive/devices/7/readings": "/archive/devices/{device_id}/readings",
	}
	for in, want := range tests {
		if got := routeLabel(in); got != want {
			t.Fatalf("routeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
