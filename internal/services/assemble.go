package services

import (
	"log/slog"
	"multistop-route-service/internal/domain"

	"github.com/twpayne/go-polyline"
)

// RouteTotals are the summed leg metrics of a route.
type RouteTotals struct {
	DistanceMeters  int
	DurationSeconds int
}

// SumLegs adds up every leg. With considerTraffic, each leg contributes its
// traffic duration when the provider reported one.
func SumLegs(legs []domain.ProviderLeg, considerTraffic bool) RouteTotals {
	var t RouteTotals
	for _, l := range legs {
		t.DistanceMeters += l.DistanceMeters
		t.DurationSeconds += l.EffectiveDurationSeconds(considerTraffic)
	}
	return t
}

// DecodePath decodes an encoded polyline into [lat, lng] pairs.
// It returns nil when the geometry is absent or cannot be decoded.
func DecodePath(encoded *string) [][]float64 {
	if encoded == nil || *encoded == "" {
		return nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(*encoded))
	if err != nil {
		slog.Warn("decode overview path failed", "err", err)
		return nil
	}
	return coords
}

// AssembleRoute packages reconciled stops and totals into the final result.
func AssembleRoute(
	reconciled ReconcileResult,
	resp *domain.ProviderResponse,
	considerTraffic bool,
) *domain.OptimizedRoute {
	totals := SumLegs(resp.Legs, considerTraffic)

	return &domain.OptimizedRoute{
		TotalDistance:        domain.FormatTotalDistance(totals.DistanceMeters),
		TotalDuration:        domain.FormatTotalDuration(totals.DurationSeconds),
		TotalDistanceMeters:  totals.DistanceMeters,
		TotalDurationSeconds: totals.DurationSeconds,
		Stops:                reconciled.Stops,
		PathGeometry:         resp.OverviewPath,
		PathPoints:           DecodePath(resp.OverviewPath),
		RawWaypointOrder:     reconciled.AppliedOrder,
	}
}
