package api

import (
	"multistop-route-service/internal/api/handlers"
	"multistop-route-service/internal/platform/metrics"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(routeHandler *handlers.RouteHandler, health *handlers.HealthHandler) http.Handler {
	mux := http.NewServeMux()

	if health == nil {
		health = &handlers.HealthHandler{}
	}

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/routes/optimize", routeHandler.Optimize)
	mux.HandleFunc("/routes/history", routeHandler.ListHistory)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
