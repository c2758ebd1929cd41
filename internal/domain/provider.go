package domain

// One segment of a provider route. Leg i ends at waypoint i in traveling order.
type ProviderLeg struct {
	DistanceMeters           int
	DurationSeconds          int
	DurationInTrafficSeconds *int
	StartAddress             string
	EndAddress               string
}

// Duration used for totals: the traffic estimate when requested and present.
func (l ProviderLeg) EffectiveDurationSeconds(considerTraffic bool) int {
	if considerTraffic && l.DurationInTrafficSeconds != nil {
		return *l.DurationInTrafficSeconds
	}
	return l.DurationSeconds
}

const ProviderStatusOK = "OK"

// Parsed directions response. It is discarded once reconciled.
// WaypointOrder is nil when the provider did not report one.
type ProviderResponse struct {
	Status        string
	Legs          []ProviderLeg
	WaypointOrder []int
	OverviewPath  *string
}
