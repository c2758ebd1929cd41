package ports

import (
	"context"
	"multistop-route-service/internal/domain"
)

// Parameters for one directions call. Waypoints are already filtered and
// always optimized by the provider.
type DirectionsRequest struct {
	Origin          string
	Destination     string
	Waypoints       []string
	OptimizeOrder   bool
	DepartNow       bool
	TrafficEstimate string
}

// Contract for the external directions/optimization service.
// Implementations make exactly one call per invocation and classify failures
// as transport, parse, or provider errors.
type DirectionsProvider interface {
	GetDirections(ctx context.Context, req DirectionsRequest) (*domain.ProviderResponse, error)
}
