package services

import (
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/ports"
	"strings"
)

// Traffic estimation mode sent when the caller asks for traffic-aware timing.
const TrafficModelBestGuess = "best_guess"

// FilterStops drops empty and whitespace-only entries, keeping order.
// Kept entries are returned trimmed.
func FilterStops(stops []string) []string {
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// BuildDirectionsRequest turns user input into provider parameters.
//
// Round trips force the destination to the origin. Waypoint optimization is
// always requested. Traffic-aware requests depart now and ask for a traffic
// estimate. Fails with an invalid request error, before any network call,
// when start or end is empty or no usable stops remain.
func BuildDirectionsRequest(req domain.RouteRequest) (ports.DirectionsRequest, error) {
	start := strings.TrimSpace(req.Start)
	end := strings.TrimSpace(req.End)
	if req.RoundTrip {
		end = start
	}

	if start == "" {
		return ports.DirectionsRequest{}, domain.NewInvalidRequest("start must be non-empty")
	}
	if end == "" {
		return ports.DirectionsRequest{}, domain.NewInvalidRequest("end must be non-empty")
	}

	stops := FilterStops(req.Stops)
	if len(stops) == 0 {
		return ports.DirectionsRequest{}, domain.NewInvalidRequest("at least one non-empty stop is required")
	}

	dr := ports.DirectionsRequest{
		Origin:        start,
		Destination:   end,
		Waypoints:     stops,
		OptimizeOrder: true,
	}
	if req.ConsiderTraffic {
		dr.DepartNow = true
		dr.TrafficEstimate = TrafficModelBestGuess
	}

	return dr, nil
}
