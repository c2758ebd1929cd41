package metrics

import (
	"net/http"
	"strconv"
	"time"

	"multistop-route-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeplanner",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routeplanner",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeplanner",
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "Directions provider calls by outcome",
	}, []string{"outcome"})

	ProviderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "routeplanner",
		Subsystem: "provider",
		Name:      "call_duration_seconds",
		Help:      "Directions provider round trip in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})

	Optimizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeplanner",
		Subsystem: "optimizer",
		Name:      "runs_total",
		Help:      "Route optimizations by terminal result",
	}, []string{"result"})

	ReconcileDegradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routeplanner",
		Subsystem: "reconciler",
		Name:      "degradations_total",
		Help:      "Stops whose display name or metrics fell back to provider data",
	}, []string{"reason"})
)

func outcome(kind domain.ErrorKind) string {
	if kind == "" {
		return "ok"
	}
	return string(kind)
}

// ObserveProviderCall records one directions call. kind is "" on success.
func ObserveProviderCall(d time.Duration, kind domain.ErrorKind) {
	ProviderCalls.WithLabelValues(outcome(kind)).Inc()
	ProviderLatency.Observe(d.Seconds())
}

// ObserveOptimization records the terminal result of one optimization.
func ObserveOptimization(kind domain.ErrorKind) {
	if kind == "" {
		Optimizations.WithLabelValues("complete").Inc()
		return
	}
	Optimizations.WithLabelValues(string(kind)).Inc()
}

func ObserveDegradation(reason string) {
	ReconcileDegradations.WithLabelValues(reason).Inc()
}

func ObserveHTTP(method, path string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
