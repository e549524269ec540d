package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/smartrash/internal/adapter/http/middleware"
	"github.com/Temutjin2k/smartrash/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware, mode types.ServiceMode) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux, mode)
	setupMetricsRoute(mux)

	switch mode {
	case types.MapService:
		setupMapRoutes(mux, routes, m)
	case types.ArchiveService:
		setupArchiveRoutes(mux, routes)
	}
}

// setupMapRoutes setups routes for map service
func setupMapRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /{$}", routes.page)                            // Live map page
	mux.HandleFunc("GET /ws/markers", routes.markers.ServeMarkers) // WebSocket marker stream

	mux.HandleFunc("GET /api/markers", routes.mapAPI.ListMarkers) // Current markers
	mux.HandleFunc("GET /api/markers/nearby", routes.mapAPI.ListNearby)
	mux.HandleFunc("GET /api/stats", routes.mapAPI.GetStats)                                // Fleet fill statistics
	mux.HandleFunc("GET /api/devices/{device_id}", routes.mapAPI.GetDevice)                 // Marker and address of a device
	mux.HandleFunc("GET /api/devices/{device_id}/history", routes.mapAPI.GetHistory)        // Readings of a device
	mux.HandleFunc("GET /api/devices/{device_id}/history.csv", routes.mapAPI.GetHistoryCSV) // Readings of a device as CSV

	mux.Handle("POST /api/readings", m.RequireRoles(routes.mapAPI.PostReading, types.RoleOperator))               // Inject a reading
	mux.Handle("DELETE /api/devices/{device_id}", m.RequireRoles(routes.mapAPI.DeleteDevice, types.RoleOperator)) // Forget a device
}

// setupArchiveRoutes setups routes for archive service
func setupArchiveRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("GET /archive/devices", routes.archive.ListDevices)
	mux.HandleFunc("GET /archive/devices/{device_id}/readings", routes.archive.ListReadings)
}

// setupSwaggerRoutes configures Swagger UI endpoints based on service mode
func setupSwaggerRoutes(mux *http.ServeMux, mode types.ServiceMode) {
	var instanceName string

	switch mode {
	case types.MapService:
		instanceName = "map"
	case types.ArchiveService:
		instanceName = "archive"
	default:
		return
	}

	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName(instanceName)))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
