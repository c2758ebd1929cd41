package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/platform/metrics"
	"multistop-route-service/internal/platform/obs"
	"multistop-route-service/internal/ports"
)

// RouteOptimizer runs the build → call → reconcile → assemble pipeline.
//
// It holds no per-request state, so one optimizer may serve concurrent
// requests. Each call makes exactly one provider request and never retries.
type RouteOptimizer struct {
	Provider ports.DirectionsProvider

	// OnTransition, when set, observes every lifecycle transition.
	OnTransition func(from, to domain.RequestState)
}

func NewRouteOptimizer(provider ports.DirectionsProvider) *RouteOptimizer {
	return &RouteOptimizer{Provider: provider}
}

// lifecycle tracks the state of one optimization.
type lifecycle struct {
	ctx     context.Context
	state   domain.RequestState
	observe func(from, to domain.RequestState)
}

func (l *lifecycle) moveTo(next domain.RequestState) {
	if !l.state.CanTransition(next) {
		slog.ErrorContext(l.ctx, "invalid lifecycle transition", "from", l.state.String(), "to", next.String())
		return
	}

	slog.DebugContext(l.ctx, "route optimization state",
		"req_id", obs.RequestID(l.ctx),
		"from", l.state.String(),
		"to", next.String(),
	)
	if l.observe != nil {
		l.observe(l.state, next)
	}
	l.state = next
}

func (l *lifecycle) fail(err error) error {
	l.moveTo(domain.StateFailed)
	metrics.ObserveOptimization(domain.KindOf(err))
	return err
}

// Optimize computes the optimized route for req.
//
// Hard errors (invalid request, transport, parse, provider) abort with no
// partial result. Reconciliation problems never fail the call.
// Cancelling ctx abandons the in-flight provider call.
func (o *RouteOptimizer) Optimize(ctx context.Context, req domain.RouteRequest) (_ *domain.OptimizedRoute, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if o.Provider == nil {
		return nil, errors.New("optimize route: provider must be non-nil")
	}

	lc := &lifecycle{ctx: ctx, state: domain.StateIdle, observe: o.OnTransition}
	lc.moveTo(domain.StateBuilding)

	dr, err := BuildDirectionsRequest(req)
	if err != nil {
		return nil, lc.fail(fmt.Errorf("optimize route: build request: %w", err))
	}

	lc.moveTo(domain.StateAwaitingProvider)

	resp, err := o.Provider.GetDirections(ctx, dr)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewTransportError(err)
		}
		return nil, lc.fail(fmt.Errorf("optimize route: get directions: %w", err))
	}
	if resp == nil {
		return nil, lc.fail(fmt.Errorf("optimize route: %w", domain.NewParseError(errors.New("empty provider response"))))
	}
	if resp.Status != domain.ProviderStatusOK {
		return nil, lc.fail(fmt.Errorf("optimize route: %w", domain.NewProviderError(resp.Status, nil)))
	}

	// The caller may have gone away while the provider was answering.
	if err := ctx.Err(); err != nil {
		return nil, lc.fail(fmt.Errorf("optimize route: %w", domain.NewTransportError(err)))
	}

	lc.moveTo(domain.StateReconciling)

	reconciled := ReconcileStops(ReconcileInput{
		Start:         dr.Origin,
		End:           dr.Destination,
		Stops:         dr.Waypoints,
		Legs:          resp.Legs,
		WaypointOrder: resp.WaypointOrder,
	})
	route := AssembleRoute(reconciled, resp, req.ConsiderTraffic)

	lc.moveTo(domain.StateComplete)
	metrics.ObserveOptimization("")

	return route, nil
}
