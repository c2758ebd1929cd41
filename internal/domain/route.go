package domain

type StopRole string

const (
	RoleStart    StopRole = "start"
	RoleWaypoint StopRole = "waypoint"
	RoleEnd      StopRole = "end"
)

// Represents one point of an optimized route.
// Address is the provider's canonical address; DisplayName is the label the
// user recognizes (their own input or a business name).
// Distance and duration describe the leg arriving at this stop and are nil
// for the start stop.
type Stop struct {
	Address              string
	DisplayName          string
	Role                 StopRole
	DistanceFromPrevious *string
	DurationFromPrevious *string
}

// Represents the final result of an optimization.
// Stops are start first, end last, waypoints in optimized order.
// It is owned by the caller once returned.
type OptimizedRoute struct {
	TotalDistance        string
	TotalDuration        string
	TotalDistanceMeters  int
	TotalDurationSeconds int
	Stops                []Stop
	PathGeometry         *string
	PathPoints           [][]float64
	RawWaypointOrder     []int
}

// Waypoints returns the intermediate stops in visiting order.
func (r *OptimizedRoute) Waypoints() []Stop {
	if len(r.Stops) < 2 {
		return nil
	}
	return r.Stops[1 : len(r.Stops)-1]
}
