package dto

import "time"

type OptimizeRouteRequest struct {
	Start           string   `json:"start" validate:"max=512"`
	End             string   `json:"end" validate:"max=512"`
	Stops           []string `json:"stops" validate:"dive,max=512"`
	RoundTrip       bool     `json:"round_trip"`
	ConsiderTraffic bool     `json:"consider_traffic"`
}

type StopResponse struct {
	Address              string  `json:"address"`
	DisplayName          string  `json:"display_name"`
	Role                 string  `json:"role"`
	DistanceFromPrevious *string `json:"distance_from_previous,omitempty"`
	DurationFromPrevious *string `json:"duration_from_previous,omitempty"`
}

type OptimizedRouteResponse struct {
	ID                   int64          `json:"id,omitempty"`
	TotalDistance        string         `json:"total_distance"`
	TotalDuration        string         `json:"total_duration"`
	TotalDistanceMeters  int            `json:"total_distance_meters"`
	TotalDurationSeconds int            `json:"total_duration_seconds"`
	Stops                []StopResponse `json:"stops"`
	PathGeometry         *string        `json:"path_geometry,omitempty"`
	PathPoints           [][]float64    `json:"path_points,omitempty"`
	WaypointOrder        []int          `json:"waypoint_order"`
}

type RouteHistoryItem struct {
	ID              int64                  `json:"id"`
	CreatedAt       time.Time              `json:"created_at"`
	ConsiderTraffic bool                   `json:"consider_traffic"`
	RoundTrip       bool                   `json:"round_trip"`
	Route           OptimizedRouteResponse `json:"route"`
}

type ListRouteHistoryResponse struct {
	Routes []RouteHistoryItem `json:"routes"`
}
