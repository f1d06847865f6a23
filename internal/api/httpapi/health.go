package httpapi

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck keeps /readyz at 503 while it returns an error.
type ReadinessCheck func(ctx context.Context) error

type statusResponse struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

func (a *API) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := maps.Clone(a.opts.Checks)
	if checks == nil {
		checks = make(map[string]ReadinessCheck, 1)
	}
	if a.opts.Store != nil {
		checks["store"] = a.opts.Store.Ping
	}

	var failed []string
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		if err := checks[name](ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err.Error())
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Failed: failed})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}
