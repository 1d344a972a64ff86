package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// HealthChecker reports the health of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ReadyHandlers serves the readiness endpoint, probing backing stores.
type ReadyHandlers struct {
	Checks map[string]HealthChecker
}

// Ready handles GET /readyz. Any failing dependency yields 503 with the
// per-check breakdown.
func (h *ReadyHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.Checks))
	status := http.StatusOK
	for name, c := range h.Checks {
		if err := c.Health(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"checks": checks}
	if status == http.StatusOK {
		body["status"] = "ok"
	} else {
		body["status"] = "degraded"
	}
	WriteJSON(w, status, body)
}
