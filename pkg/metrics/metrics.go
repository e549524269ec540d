package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	ReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bin_readings_total",
			Help: "Total number of bin telemetry readings by source and outcome",
		},
		[]string{"source", "status"},
	)

	ActiveMarkersGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bin_markers_active",
			Help: "Current number of visible bin markers",
		},
	)

	FillPercentHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bin_fill_percent",
			Help:    "Distribution of fill percentages of accepted readings",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	MQTTConnectedGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mqtt_connected",
			Help: "1 while the telemetry subscription is connected",
		},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "exchange", "status"},
	)

	RabbitMQMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_dropped_total",
			Help: "Total number of messages dropped before publishing because the outbox was full",
		},
		[]string{"service", "exchange"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}

// RecordReading records the outcome of one telemetry reading
func RecordReading(source string, err error) {
	ReadingsTotal.WithLabelValues(source, status(err)).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(service, operation, status(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, exchange string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, exchange, status(err)).Inc()
}

// RecordRabbitMQDrop records a message that never reached the broker
func RecordRabbitMQDrop(service, exchange string) {
	RabbitMQMessagesDropped.WithLabelValues(service, exchange).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(service, queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(service, queue, status(err)).Inc()
}
