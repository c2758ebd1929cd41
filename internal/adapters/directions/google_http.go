package directions

import (
	"context"
	"fmt"
	"io"
	"multistop-route-service/internal/ports"
	"net/http"
	"strings"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// newRequest builds the GET request carrying every directions parameter in
// the query string.
func (g *GoogleDirectionsProvider) newRequest(
	ctx context.Context,
	dr ports.DirectionsRequest,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("origin", dr.Origin)
	q.Set("destination", dr.Destination)
	q.Set("mode", "driving")
	if wp := waypointsParam(dr); wp != "" {
		q.Set("waypoints", wp)
	}
	if dr.DepartNow {
		q.Set("departure_time", "now")
	}
	if dr.TrafficEstimate != "" {
		q.Set("traffic_model", dr.TrafficEstimate)
	}
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")

	return req, nil
}

// waypointsParam renders "optimize:true|stop1|...|stopN". A literal pipe
// inside a stop would split it, so it is replaced by a space.
func waypointsParam(dr ports.DirectionsRequest) string {
	if len(dr.Waypoints) == 0 {
		return ""
	}

	parts := make([]string, 0, len(dr.Waypoints)+1)
	if dr.OptimizeOrder {
		parts = append(parts, "optimize:true")
	}
	for _, w := range dr.Waypoints {
		parts = append(parts, strings.ReplaceAll(w, "|", " "))
	}

	return strings.Join(parts, "|")
}

// do executes the request once. Responses with status >= 400 are returned
// as *httpStatusError with the body drained.
func (g *GoogleDirectionsProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
