package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	canvasCommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvas_commits_total",
			Help: "Total number of canvas history commits by operation",
		},
		[]string{"op"},
	)
	canvasWSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "canvas_ws_connections",
			Help: "Current number of open canvas WebSocket connections",
		},
	)
)

// Register registers the metrics. Call this once from main.go
func Register() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(canvasCommitsTotal)
	prometheus.MustRegister(canvasWSConnections)
}

// Middleware tracks request counts and latency.
// c.Route().Path keeps the label cardinality bounded (no raw IDs in paths).
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		httpRequestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// CountCommit 캔버스 커밋 집계 (op: drag, resize, pan, zoom, add, remove...)
func CountCommit(op string) {
	canvasCommitsTotal.WithLabelValues(op).Inc()
}

// WSConnected WebSocket 연결 증가
func WSConnected() {
	canvasWSConnections.Inc()
}

// WSDisconnected WebSocket 연결 감소
func WSDisconnected() {
	canvasWSConnections.Dec()
}
