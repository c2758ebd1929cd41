package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck probes one optional collaborator.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness plus the state of configured collaborators.
// A failing check reports "degraded" with 200, since optimization itself
// only needs the directions provider.
type HealthHandler struct {
	Checks map[string]HealthCheck
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			checks[name] = err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	res := map[string]any{"status": status}
	if len(checks) > 0 {
		res["checks"] = checks
	}
	writeJSON(w, r, http.StatusOK, res)
}
