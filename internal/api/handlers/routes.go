package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"multistop-route-service/internal/api/dto"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/ports"
	"multistop-route-service/internal/services"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	maxBodyBytes        = 64 << 10
)

// RouteOptimizer is the core entry point the handler depends on.
type RouteOptimizer interface {
	Optimize(ctx context.Context, req domain.RouteRequest) (*domain.OptimizedRoute, error)
}

// RouteHandler serves route optimization and history.
// History and Usage are optional collaborators; nil disables them.
type RouteHandler struct {
	Optimizer RouteOptimizer
	History   ports.RouteHistoryRepository
	Usage     ports.UsageCounter
	MaxStops  int
	Now       func() time.Time

	validate *validator.Validate
}

func NewRouteHandler(
	optimizer RouteOptimizer,
	history ports.RouteHistoryRepository,
	usage ports.UsageCounter,
	maxStops int,
) *RouteHandler {
	return &RouteHandler{
		Optimizer: optimizer,
		History:   history,
		Usage:     usage,
		MaxStops:  maxStops,
		Now:       time.Now,
		validate:  validator.New(),
	}
}

// Optimize computes an optimized route for the posted stops, then records it
// in history and usage counters. Recording failures never fail the request.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRouteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "start, end and stops must be at most 512 characters")
		return
	}

	if h.MaxStops > 0 {
		if n := len(services.FilterStops(req.Stops)); n > h.MaxStops {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d stops are allowed", h.MaxStops))
			return
		}
	}

	routeReq := domain.RouteRequest{
		Start:           req.Start,
		End:             req.End,
		Stops:           req.Stops,
		RoundTrip:       req.RoundTrip,
		ConsiderTraffic: req.ConsiderTraffic,
	}

	route, err := h.Optimizer.Optimize(r.Context(), routeReq)
	if err != nil {
		h.writeOptimizeError(w, r, err)
		return
	}

	res := toRouteResponse(route)
	res.ID = h.record(r.Context(), routeReq, route)

	writeJSON(w, r, http.StatusOK, res)
}

// record saves the route and bumps the usage counter, returning the saved id
// or 0 when history is disabled or the save failed.
func (h *RouteHandler) record(ctx context.Context, req domain.RouteRequest, route *domain.OptimizedRoute) int64 {
	if h.Usage != nil {
		if _, err := h.Usage.IncrementOptimizations(ctx, h.Now()); err != nil {
			slog.WarnContext(ctx, "usage counter increment failed", "err", err)
		}
	}

	if h.History == nil {
		return 0
	}

	id, err := h.History.SaveRoute(ctx, ports.RouteHistoryEntry{
		ConsiderTraffic: req.ConsiderTraffic,
		RoundTrip:       req.RoundTrip,
		Route:           *route,
	})
	if err != nil {
		slog.WarnContext(ctx, "save route history failed", "err", err)
		return 0
	}
	return id
}

func (h *RouteHandler) writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)

	switch kind {
	case domain.KindInvalidRequest:
		var oe *domain.OptimizationError
		msg := "invalid route request"
		if errors.As(err, &oe) && oe.Err != nil {
			msg = oe.Err.Error()
		}
		writeError(w, r, http.StatusBadRequest, msg)
		return
	case domain.KindProvider:
		status, _ := domain.ProviderStatus(err)
		slog.WarnContext(r.Context(), "optimize route failed", "kind", kind, "status", status, "err", err)
		writeJSON(w, r, http.StatusBadGateway, map[string]string{
			"error":  "could not calculate route",
			"status": status,
		})
		return
	case domain.KindTransport:
		slog.WarnContext(r.Context(), "optimize route failed", "kind", kind, "err", err)
		if isTimeout(err) {
			writeError(w, r, http.StatusGatewayTimeout, "could not calculate route")
			return
		}
		writeError(w, r, http.StatusBadGateway, "could not calculate route")
		return
	case domain.KindParse:
		slog.ErrorContext(r.Context(), "optimize route failed", "kind", kind, "err", err)
		writeError(w, r, http.StatusBadGateway, "could not calculate route")
		return
	default:
		slog.ErrorContext(r.Context(), "optimize route failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ListHistory returns recently saved routes, newest first.
func (h *RouteHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.History == nil {
		writeError(w, r, http.StatusNotImplemented, "route history is not configured")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
			return
		}
		limit = n
	}

	entries, err := h.History.ListRecentRoutes(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "list route history failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRouteHistoryResponse{Routes: make([]dto.RouteHistoryItem, 0, len(entries))}
	for _, e := range entries {
		route := e.Route
		item := dto.RouteHistoryItem{
			ID:              e.ID,
			CreatedAt:       e.CreatedAt,
			ConsiderTraffic: e.ConsiderTraffic,
			RoundTrip:       e.RoundTrip,
			Route:           toRouteResponse(&route),
		}
		item.Route.ID = e.ID
		res.Routes = append(res.Routes, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toRouteResponse(route *domain.OptimizedRoute) dto.OptimizedRouteResponse {
	stops := make([]dto.StopResponse, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, dto.StopResponse{
			Address:              s.Address,
			DisplayName:          s.DisplayName,
			Role:                 string(s.Role),
			DistanceFromPrevious: s.DistanceFromPrevious,
			DurationFromPrevious: s.DurationFromPrevious,
		})
	}

	order := route.RawWaypointOrder
	if order == nil {
		order = []int{}
	}

	return dto.OptimizedRouteResponse{
		TotalDistance:        route.TotalDistance,
		TotalDuration:        route.TotalDuration,
		TotalDistanceMeters:  route.TotalDistanceMeters,
		TotalDurationSeconds: route.TotalDurationSeconds,
		Stops:                stops,
		PathGeometry:         route.PathGeometry,
		PathPoints:           route.PathPoints,
		WaypointOrder:        order,
	}
}
