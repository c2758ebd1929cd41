package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"multistop-route-service/internal/adapters/directions"
	"multistop-route-service/internal/api/dto"
	"multistop-route-service/internal/domain"
	"multistop-route-service/internal/ports"
	"multistop-route-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryHistory struct {
	mu      sync.Mutex
	entries []ports.RouteHistoryEntry
	saveErr error
}

func (m *memoryHistory) SaveRoute(ctx context.Context, e ports.RouteHistoryEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return 0, m.saveErr
	}
	e.ID = int64(len(m.entries) + 1)
	e.CreatedAt = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	m.entries = append(m.entries, e)
	return e.ID, nil
}

func (m *memoryHistory) ListRecentRoutes(ctx context.Context, limit int) ([]ports.RouteHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.RouteHistoryEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type countingUsage struct {
	calls int
	err   error
}

func (c *countingUsage) IncrementOptimizations(ctx context.Context, day time.Time) (int64, error) {
	c.calls++
	return int64(c.calls), c.err
}

func okResponse() *domain.ProviderResponse {
	return &domain.ProviderResponse{
		Status: domain.ProviderStatusOK,
		Legs: []domain.ProviderLeg{
			{DistanceMeters: 500, DurationSeconds: 300, EndAddress: "789 Elm St, Houston, TX 77002, USA"},
			{DistanceMeters: 2000, DurationSeconds: 600, EndAddress: "456 Oak Ave, Houston, TX 77002, USA"},
		},
		WaypointOrder: []int{0},
	}
}

func newHandler(resp *domain.ProviderResponse, providerErr error, history ports.RouteHistoryRepository, usage ports.UsageCounter) *RouteHandler {
	opt := services.NewRouteOptimizer(directions.NewMockDirectionsProvider(resp, providerErr))
	return NewRouteHandler(opt, history, usage, 3)
}

func postOptimize(t *testing.T, h *RouteHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)
	return rec
}

func TestOptimizeHandlerSuccess(t *testing.T) {
	history := &memoryHistory{}
	usage := &countingUsage{}
	h := newHandler(okResponse(), nil, history, usage)

	rec := postOptimize(t, h, `{
		"start": "Walmart, 123 Main St, Houston, TX",
		"end": "Target, 456 Oak Ave, Houston, TX",
		"stops": ["Starbucks, 789 Elm St, Houston, TX", ""]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.OptimizedRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, "1.6 miles", res.TotalDistance)
	assert.Equal(t, "15 min", res.TotalDuration)
	require.Len(t, res.Stops, 3)
	assert.Equal(t, "Starbucks, 789 Elm St, Houston, TX", res.Stops[1].DisplayName)
	assert.Equal(t, "waypoint", res.Stops[1].Role)
	assert.Nil(t, res.Stops[0].DistanceFromPrevious)
	assert.Equal(t, []int{0}, res.WaypointOrder)

	assert.Len(t, history.entries, 1)
	assert.Equal(t, 1, usage.calls)
}

func TestOptimizeHandlerRecordingFailuresAreSoft(t *testing.T) {
	history := &memoryHistory{saveErr: errors.New("db down")}
	usage := &countingUsage{err: errors.New("valkey down")}
	h := newHandler(okResponse(), nil, history, usage)

	rec := postOptimize(t, h, `{"start":"A","end":"B","stops":["C"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.OptimizedRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Zero(t, res.ID)
}

func TestOptimizeHandlerErrors(t *testing.T) {
	cases := []struct {
		name        string
		method      string
		body        string
		providerErr error
		wantCode    int
		wantStatus  string
	}{
		{name: "method", method: http.MethodGet, wantCode: http.StatusMethodNotAllowed},
		{name: "bad json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"start":"A","end":"B","stops":["C"],"x":1}`, wantCode: http.StatusBadRequest},
		{name: "two objects", body: `{"start":"A","end":"B","stops":["C"]}{}`, wantCode: http.StatusBadRequest},
		{name: "no stops", body: `{"start":"A","end":"B","stops":[" "]}`, wantCode: http.StatusBadRequest},
		{name: "too many stops", body: `{"start":"A","end":"B","stops":["1","2","3","4"]}`, wantCode: http.StatusBadRequest},
		{name: "stop too long", body: `{"start":"A","end":"B","stops":["` + strings.Repeat("x", 513) + `"]}`, wantCode: http.StatusBadRequest},
		{
			name:        "provider status",
			body:        `{"start":"A","end":"B","stops":["C"]}`,
			providerErr: domain.NewProviderError("ZERO_RESULTS", nil),
			wantCode:    http.StatusBadGateway,
			wantStatus:  "ZERO_RESULTS",
		},
		{
			name:        "transport",
			body:        `{"start":"A","end":"B","stops":["C"]}`,
			providerErr: domain.NewTransportError(errors.New("connection refused")),
			wantCode:    http.StatusBadGateway,
		},
		{
			name:        "timeout",
			body:        `{"start":"A","end":"B","stops":["C"]}`,
			providerErr: domain.NewTransportError(context.DeadlineExceeded),
			wantCode:    http.StatusGatewayTimeout,
		},
		{
			name:        "parse",
			body:        `{"start":"A","end":"B","stops":["C"]}`,
			providerErr: domain.NewParseError(errors.New("bad body")),
			wantCode:    http.StatusBadGateway,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			history := &memoryHistory{}
			h := newHandler(okResponse(), c.providerErr, history, nil)

			method := c.method
			if method == "" {
				method = http.MethodPost
			}
			req := httptest.NewRequest(method, "/routes/optimize", strings.NewReader(c.body))
			rec := httptest.NewRecorder()
			h.Optimize(rec, req)

			require.Equal(t, c.wantCode, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			if c.wantStatus != "" {
				assert.Equal(t, c.wantStatus, body["status"])
			}
			assert.Empty(t, history.entries)
		})
	}
}

func TestListHistory(t *testing.T) {
	history := &memoryHistory{}
	h := newHandler(okResponse(), nil, history, nil)

	for i := 0; i < 3; i++ {
		rec := postOptimize(t, h, `{"start":"A","end":"B","stops":["C"],"round_trip":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/routes/history?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ListHistory(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListRouteHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Routes, 2)
	assert.Equal(t, int64(3), res.Routes[0].ID)
	assert.True(t, res.Routes[0].RoundTrip)
	assert.Equal(t, "A", res.Routes[0].Route.Stops[2].DisplayName)
}

func TestListHistoryValidation(t *testing.T) {
	h := newHandler(okResponse(), nil, &memoryHistory{}, nil)

	for _, q := range []string{"limit=0", "limit=101", "limit=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/routes/history?"+q, nil)
		rec := httptest.NewRecorder()
		h.ListHistory(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	disabled := newHandler(okResponse(), nil, nil, nil)
	rec := httptest.NewRecorder()
	disabled.ListHistory(rec, httptest.NewRequest(http.MethodGet, "/routes/history", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
