package domain

// Immutable user input for a single optimization.
// Stops keep the order the user entered them in; empty entries are allowed
// here and removed when the provider request is built.
type RouteRequest struct {
	Start           string
	End             string
	Stops           []string
	RoundTrip       bool
	ConsiderTraffic bool
}
