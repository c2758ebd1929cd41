package services

import (
	"log/slog"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/platform/metrics"
)

const (
	degradeOrderShort      = "waypoint_order_short"
	degradeIndexOutOfRange = "waypoint_index_out_of_range"
	degradeMissingLeg      = "missing_leg"
)

// ReconcileInput is what the reconciler needs from the request and response.
// Stops are the stops sent to the provider, in the order they were sent.
type ReconcileInput struct {
	Start         string
	End           string
	Stops         []string
	Legs          []domain.ProviderLeg
	WaypointOrder []int
}

// ReconcileResult is the labeled stop sequence plus the order actually applied.
type ReconcileResult struct {
	Stops        []domain.Stop
	AppliedOrder []int
	Degradations int
}

// IdentityOrder returns 0..n-1.
func IdentityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// ReconcileStops maps the provider's optimized order and legs back onto the
// user's own stop text.
//
// Leg i (for i < len(legs)-1) ends at the waypoint the provider visits i-th;
// WaypointOrder[i] names its index in Stops, whose text becomes the display
// name. The last leg ends at the destination. A missing order means no
// reordering happened.
//
// Malformed responses degrade instead of failing: positions beyond the order
// or with an out-of-range index take their label from the leg's canonical
// address, and positions without a leg carry no metrics. The result always
// has len(Stops)+2 entries.
func ReconcileStops(in ReconcileInput) ReconcileResult {
	n := len(in.Stops)

	order := in.WaypointOrder
	if order == nil {
		order = IdentityOrder(n)
	}

	res := ReconcileResult{
		Stops:        make([]domain.Stop, 0, n+2),
		AppliedOrder: append([]int(nil), order...),
	}

	// Intermediate legs are every leg but the last one into the destination.
	intermediate := len(in.Legs) - 1
	if intermediate < 0 {
		intermediate = 0
	}

	startStop := domain.Stop{
		DisplayName: in.Start,
		Role:        domain.RoleStart,
	}
	if len(in.Legs) > 0 {
		startStop.Address = in.Legs[0].StartAddress
	}
	res.Stops = append(res.Stops, startStop)

	for i := 0; i < n; i++ {
		stop := domain.Stop{Role: domain.RoleWaypoint}

		var leg *domain.ProviderLeg
		if i < intermediate {
			leg = &in.Legs[i]
			stop.Address = leg.EndAddress
			applyLegMetrics(&stop, *leg)
		} else {
			res.Degradations++
			metrics.ObserveDegradation(degradeMissingLeg)
		}

		stop.DisplayName = waypointDisplayName(in.Stops, order, i, leg, &res)
		res.Stops = append(res.Stops, stop)
	}

	endStop := domain.Stop{
		DisplayName: in.End,
		Role:        domain.RoleEnd,
	}
	if len(in.Legs) > 0 {
		last := in.Legs[len(in.Legs)-1]
		endStop.Address = last.EndAddress
		applyLegMetrics(&endStop, last)
	}
	res.Stops = append(res.Stops, endStop)

	if res.Degradations > 0 {
		slog.Warn("reconcile degraded",
			"stops", n,
			"legs", len(in.Legs),
			"waypoint_order", len(order),
			"degradations", res.Degradations,
		)
	}

	return res
}

// waypointDisplayName picks the label for the waypoint visited at position i.
func waypointDisplayName(
	stops []string,
	order []int,
	i int,
	leg *domain.ProviderLeg,
	res *ReconcileResult,
) string {
	if i < len(order) {
		idx := order[i]
		if idx >= 0 && idx < len(stops) && stops[idx] != "" {
			return stops[idx]
		}
		res.Degradations++
		metrics.ObserveDegradation(degradeIndexOutOfRange)
	} else {
		res.Degradations++
		metrics.ObserveDegradation(degradeOrderShort)
	}

	if leg != nil && leg.EndAddress != "" {
		return domain.DisplayNameForAddress(leg.EndAddress)
	}

	// No order entry and no leg: the positional input is the only label left.
	return stops[i]
}

func applyLegMetrics(stop *domain.Stop, leg domain.ProviderLeg) {
	dist := domain.FormatLegDistance(leg.DistanceMeters)
	dur := domain.FormatLegDuration(leg.DurationSeconds)
	stop.DistanceFromPrevious = &dist
	stop.DurationFromPrevious = &dur
}
