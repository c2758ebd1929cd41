package directions

import (
	"errors"
	"fmt"
	"math"
	"multistop-route-service/internal/domain"
)

type valueField struct {
	Value *float64 `json:"value"`
}

type directionsLeg struct {
	Distance          *valueField `json:"distance"`
	Duration          *valueField `json:"duration"`
	DurationInTraffic *valueField `json:"duration_in_traffic"`
	StartAddress      string      `json:"start_address"`
	EndAddress        string      `json:"end_address"`
}

type directionsRoute struct {
	Legs             []directionsLeg `json:"legs"`
	WaypointOrder    []int           `json:"waypoint_order"`
	OverviewPolyline *struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
}

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []directionsRoute `json:"routes"`
}

// toProviderResponse validates the decoded body and converts the first route.
func (d *directionsResponse) toProviderResponse() (*domain.ProviderResponse, error) {
	if d.Status == "" {
		return nil, domain.NewParseError(errors.New("response has no status"))
	}

	if d.Status != domain.ProviderStatusOK {
		var cause error
		if d.ErrorMessage != "" {
			cause = errors.New(d.ErrorMessage)
		}
		return nil, domain.NewProviderError(d.Status, cause)
	}

	if len(d.Routes) == 0 {
		return nil, domain.NewProviderError("ZERO_RESULTS", errors.New("status OK but no routes returned"))
	}

	route := d.Routes[0]
	if len(route.Legs) == 0 {
		return nil, domain.NewParseError(errors.New("route has no legs"))
	}

	legs := make([]domain.ProviderLeg, 0, len(route.Legs))
	for i, l := range route.Legs {
		if l.Distance == nil || l.Distance.Value == nil {
			return nil, domain.NewParseError(fmt.Errorf("leg %d: missing distance", i))
		}
		if l.Duration == nil || l.Duration.Value == nil {
			return nil, domain.NewParseError(fmt.Errorf("leg %d: missing duration", i))
		}

		// Providers may report float metrics; round for domain consistency.
		leg := domain.ProviderLeg{
			DistanceMeters:  int(math.Round(*l.Distance.Value)),
			DurationSeconds: int(math.Round(*l.Duration.Value)),
			StartAddress:    l.StartAddress,
			EndAddress:      l.EndAddress,
		}
		if l.DurationInTraffic != nil && l.DurationInTraffic.Value != nil {
			v := int(math.Round(*l.DurationInTraffic.Value))
			leg.DurationInTrafficSeconds = &v
		}
		legs = append(legs, leg)
	}

	out := &domain.ProviderResponse{
		Status: d.Status,
		Legs:   legs,
	}

	// An empty order carries no information; treat it like an absent one.
	if len(route.WaypointOrder) > 0 {
		out.WaypointOrder = append([]int(nil), route.WaypointOrder...)
	}

	if route.OverviewPolyline != nil && route.OverviewPolyline.Points != "" {
		p := route.OverviewPolyline.Points
		out.OverviewPath = &p
	}

	return out, nil
}
