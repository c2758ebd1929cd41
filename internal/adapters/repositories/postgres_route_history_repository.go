package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/platform/obs"
	"multistop-route-service/internal/ports"
)

// Postgres-backed implementation of the RouteHistoryRepository port.
type PostgresRouteHistoryRepository struct {
	DB *sql.DB
}

func NewPostgresRouteHistoryRepository(db *sql.DB) *PostgresRouteHistoryRepository {
	return &PostgresRouteHistoryRepository{DB: db}
}

// storedStop is the JSON shape of a stop inside the stops column.
type storedStop struct {
	Address              string  `json:"address"`
	DisplayName          string  `json:"display_name"`
	Role                 string  `json:"role"`
	DistanceFromPrevious *string `json:"distance_from_previous,omitempty"`
	DurationFromPrevious *string `json:"duration_from_previous,omitempty"`
}

func toStoredStops(stops []domain.Stop) []storedStop {
	out := make([]storedStop, 0, len(stops))
	for _, s := range stops {
		out = append(out, storedStop{
			Address:              s.Address,
			DisplayName:          s.DisplayName,
			Role:                 string(s.Role),
			DistanceFromPrevious: s.DistanceFromPrevious,
			DurationFromPrevious: s.DurationFromPrevious,
		})
	}
	return out
}

func fromStoredStops(stops []storedStop) []domain.Stop {
	out := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		out = append(out, domain.Stop{
			Address:              s.Address,
			DisplayName:          s.DisplayName,
			Role:                 domain.StopRole(s.Role),
			DistanceFromPrevious: s.DistanceFromPrevious,
			DurationFromPrevious: s.DurationFromPrevious,
		})
	}
	return out
}

func endpointNames(stops []domain.Stop) (string, string) {
	if len(stops) == 0 {
		return "", ""
	}
	return stops[0].DisplayName, stops[len(stops)-1].DisplayName
}

// Store one optimized route and return its id.
func (r *PostgresRouteHistoryRepository) SaveRoute(
	ctx context.Context,
	entry ports.RouteHistoryEntry,
) (_ int64, err error) {
	defer obs.Time(ctx, "history.SaveRoute")(&err)

	if r.DB == nil {
		return 0, errors.New("route history: DB is nil")
	}

	route := entry.Route
	if len(route.Stops) < 2 {
		return 0, fmt.Errorf("save route: expected at least 2 stops, got %d", len(route.Stops))
	}

	stopsJSON, err := json.Marshal(toStoredStops(route.Stops))
	if err != nil {
		return 0, fmt.Errorf("save route: marshal stops: %w", err)
	}

	order := route.RawWaypointOrder
	if order == nil {
		order = []int{}
	}
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return 0, fmt.Errorf("save route: marshal waypoint order: %w", err)
	}

	startName, endName := endpointNames(route.Stops)

	q := `
	INSERT INTO route_history (
		start_name, end_name,
		total_distance, total_duration,
		total_distance_meters, total_duration_seconds,
		consider_traffic, round_trip,
		stops, waypoint_order, path_geometry
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id;
	`

	var id int64
	err = r.DB.QueryRowContext(ctx, q,
		startName, endName,
		route.TotalDistance, route.TotalDuration,
		route.TotalDistanceMeters, route.TotalDurationSeconds,
		entry.ConsiderTraffic, entry.RoundTrip,
		string(stopsJSON), string(orderJSON), route.PathGeometry,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save route: insert route_history: %w", err)
	}

	return id, nil
}

// Return the most recently saved routes, newest first.
func (r *PostgresRouteHistoryRepository) ListRecentRoutes(
	ctx context.Context,
	limit int,
) (_ []ports.RouteHistoryEntry, err error) {
	defer obs.Time(ctx, "history.ListRecentRoutes")(&err)

	if r.DB == nil {
		return nil, errors.New("route history: DB is nil")
	}

	if limit <= 0 {
		return []ports.RouteHistoryEntry{}, nil
	}

	q := `
	SELECT id, created_at,
		total_distance, total_duration,
		total_distance_meters, total_duration_seconds,
		consider_traffic, round_trip,
		stops, waypoint_order, path_geometry
	FROM route_history
	ORDER BY created_at DESC, id DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list routes: query route_history table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.RouteHistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e         ports.RouteHistoryEntry
			stopsJSON []byte
			orderJSON []byte
			path      sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.CreatedAt,
			&e.Route.TotalDistance, &e.Route.TotalDuration,
			&e.Route.TotalDistanceMeters, &e.Route.TotalDurationSeconds,
			&e.ConsiderTraffic, &e.RoundTrip,
			&stopsJSON, &orderJSON, &path,
		); err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}

		var stops []storedStop
		if err := json.Unmarshal(stopsJSON, &stops); err != nil {
			return nil, fmt.Errorf("list routes: decode stops id=%d: %w", e.ID, err)
		}
		e.Route.Stops = fromStoredStops(stops)

		if err := json.Unmarshal(orderJSON, &e.Route.RawWaypointOrder); err != nil {
			return nil, fmt.Errorf("list routes: decode waypoint order id=%d: %w", e.ID, err)
		}

		if path.Valid {
			p := path.String
			e.Route.PathGeometry = &p
		}

		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return out, nil
}
