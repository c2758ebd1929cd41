package directions

import (
	"context"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/ports"
	"sync"
)

// MockDirectionsProvider returns a canned response and records every request.
type MockDirectionsProvider struct {
	Response *domain.ProviderResponse
	Err      error

	mu       sync.Mutex
	requests []ports.DirectionsRequest
}

func NewMockDirectionsProvider(resp *domain.ProviderResponse, err error) *MockDirectionsProvider {
	return &MockDirectionsProvider{Response: resp, Err: err}
}

func (p *MockDirectionsProvider) GetDirections(ctx context.Context, req ports.DirectionsRequest) (*domain.ProviderResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, domain.NewTransportError(err)
	}
	if p.Err != nil {
		return nil, p.Err
	}

	return p.Response, nil
}

// Requests returns a copy of the requests seen so far.
func (p *MockDirectionsProvider) Requests() []ports.DirectionsRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]ports.DirectionsRequest(nil), p.requests...)
}
