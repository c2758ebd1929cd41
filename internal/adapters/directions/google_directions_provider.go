package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/platform/metrics"
	"multistop-route-service/internal/platform/obs"
	"multistop-route-service/internal/ports"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"
	DefaultTimeout = 20 * time.Second

	maxResponseBytes = 8 << 20
)

// GoogleDirectionsProvider implements DirectionsProvider against a
// Google-Directions-compatible HTTP endpoint.
//
// Each call is a single GET with no retries and no caching; the client
// timeout bounds a hung provider. The provider is safe for concurrent use.
type GoogleDirectionsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewGoogleDirectionsProvider(
	apiKey string,
	baseURL string,
	timeout time.Duration,
) (*GoogleDirectionsProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("directions api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &GoogleDirectionsProvider{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

func (g *GoogleDirectionsProvider) GetDirections(
	ctx context.Context,
	dr ports.DirectionsRequest,
) (_ *domain.ProviderResponse, err error) {
	defer obs.Time(ctx, "directions.GetDirections")(&err)

	start := time.Now()
	defer func() {
		metrics.ObserveProviderCall(time.Since(start), domain.KindOf(err))
	}()

	req, err := g.newRequest(ctx, dr)
	if err != nil {
		return nil, domain.NewTransportError(err)
	}

	resp, err := g.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return nil, domain.NewProviderError(fmt.Sprintf("HTTP_%d", he.Code), he)
		}
		return nil, domain.NewTransportError(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("read response body: %w", err))
	}

	var decoded directionsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.NewParseError(fmt.Errorf("decode directions response: %w", err))
	}

	return decoded.toProviderResponse()
}
