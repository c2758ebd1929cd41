package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{
  "status": "OK",
  "routes": [{
    "legs": [
      {"distance": {"value": 500}, "duration": {"value": 300},
       "start_address": "123 Main St, Houston, TX 77002, USA",
       "end_address": "789 Elm St, Houston, TX 77002, USA"},
      {"distance": {"value": 2000}, "duration": {"value": 600}, "duration_in_traffic": {"value": 900},
       "start_address": "789 Elm St, Houston, TX 77002, USA",
       "end_address": "456 Oak Ave, Houston, TX 77002, USA"}
    ],
    "waypoint_order": [0],
    "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"}
  }]
}`

func newTestProvider(t *testing.T, h http.HandlerFunc) (*GoogleDirectionsProvider, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewGoogleDirectionsProvider("test-key", srv.URL, 2*time.Second)
	require.NoError(t, err)

	return p, srv
}

func TestGetDirectionsSendsQuery(t *testing.T) {
	var got url.Values
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(okBody))
	})

	_, err := p.GetDirections(context.Background(), ports.DirectionsRequest{
		Origin:          "Walmart, 123 Main St, Houston, TX",
		Destination:     "Target, 456 Oak Ave, Houston, TX",
		Waypoints:       []string{"Starbucks, 789 Elm St", "a|b"},
		OptimizeOrder:   true,
		DepartNow:       true,
		TrafficEstimate: "best_guess",
	})
	require.NoError(t, err)

	assert.Equal(t, "Walmart, 123 Main St, Houston, TX", got.Get("origin"))
	assert.Equal(t, "Target, 456 Oak Ave, Houston, TX", got.Get("destination"))
	assert.Equal(t, "optimize:true|Starbucks, 789 Elm St|a b", got.Get("waypoints"))
	assert.Equal(t, "now", got.Get("departure_time"))
	assert.Equal(t, "best_guess", got.Get("traffic_model"))
	assert.Equal(t, "test-key", got.Get("key"))
}

func TestGetDirectionsOmitsTrafficParams(t *testing.T) {
	var got url.Values
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(okBody))
	})

	_, err := p.GetDirections(context.Background(), ports.DirectionsRequest{
		Origin: "A", Destination: "B", Waypoints: []string{"C"}, OptimizeOrder: true,
	})
	require.NoError(t, err)

	assert.Empty(t, got.Get("departure_time"))
	assert.Empty(t, got.Get("traffic_model"))
}

func TestGetDirectionsParsesResponse(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okBody))
	})

	resp, err := p.GetDirections(context.Background(), ports.DirectionsRequest{Origin: "A", Destination: "B"})
	require.NoError(t, err)

	require.Len(t, resp.Legs, 2)
	assert.Equal(t, 500, resp.Legs[0].DistanceMeters)
	assert.Equal(t, 300, resp.Legs[0].DurationSeconds)
	assert.Nil(t, resp.Legs[0].DurationInTrafficSeconds)
	require.NotNil(t, resp.Legs[1].DurationInTrafficSeconds)
	assert.Equal(t, 900, *resp.Legs[1].DurationInTrafficSeconds)
	assert.Equal(t, "456 Oak Ave, Houston, TX 77002, USA", resp.Legs[1].EndAddress)
	assert.Equal(t, []int{0}, resp.WaypointOrder)
	require.NotNil(t, resp.OverviewPath)
}

func TestGetDirectionsErrors(t *testing.T) {
	cases := []struct {
		name       string
		httpStatus int
		body       string
		want       error
		status     string
	}{
		{name: "zero results", httpStatus: 200, body: `{"status":"ZERO_RESULTS","routes":[]}`, want: domain.ErrProvider, status: "ZERO_RESULTS"},
		{name: "ok without routes", httpStatus: 200, body: `{"status":"OK","routes":[]}`, want: domain.ErrProvider, status: "ZERO_RESULTS"},
		{name: "denied", httpStatus: 200, body: `{"status":"REQUEST_DENIED","error_message":"bad key"}`, want: domain.ErrProvider, status: "REQUEST_DENIED"},
		{name: "http error", httpStatus: 500, body: `oops`, want: domain.ErrProvider, status: "HTTP_500"},
		{name: "not json", httpStatus: 200, body: `<html>`, want: domain.ErrParse},
		{name: "missing status", httpStatus: 200, body: `{"routes":[]}`, want: domain.ErrParse},
		{name: "missing distance", httpStatus: 200, body: `{"status":"OK","routes":[{"legs":[{"duration":{"value":1}}]}]}`, want: domain.ErrParse},
		{name: "no legs", httpStatus: 200, body: `{"status":"OK","routes":[{"legs":[]}]}`, want: domain.ErrParse},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.httpStatus)
				_, _ = w.Write([]byte(c.body))
			})

			resp, err := p.GetDirections(context.Background(), ports.DirectionsRequest{Origin: "A", Destination: "B"})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, errors.Is(err, c.want), "got %v", err)

			if c.status != "" {
				s, ok := domain.ProviderStatus(err)
				assert.True(t, ok)
				assert.Equal(t, c.status, s)
			}
		})
	}
}

func TestGetDirectionsTransportError(t *testing.T) {
	p, srv := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := p.GetDirections(context.Background(), ports.DirectionsRequest{Origin: "A", Destination: "B"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport), "got %v", err)
}

func TestGetDirectionsHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.GetDirections(ctx, ports.DirectionsRequest{Origin: "A", Destination: "B"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewGoogleDirectionsProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleDirectionsProvider("  ", "", 0)
	require.Error(t, err)
}
