package ports

import (
	"context"
	"multistop-route-service/internal/domain"
	"time"
)

// A saved optimization.
type RouteHistoryEntry struct {
	ID              int64
	CreatedAt       time.Time
	ConsiderTraffic bool
	RoundTrip       bool
	Route           domain.OptimizedRoute
}

// Port: storage of optimized routes for later replay.
type RouteHistoryRepository interface {
	SaveRoute(ctx context.Context, entry RouteHistoryEntry) (int64, error)
	ListRecentRoutes(ctx context.Context, limit int) ([]RouteHistoryEntry, error)
}
