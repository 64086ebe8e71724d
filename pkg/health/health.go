// Package health provides Kubernetes-style liveness and readiness endpoints.
//
// Liveness answers "is the process alive" and only reflects the explicit
// ready/alive state of the service. Readiness additionally runs the
// registered dependency checks on each probe request, each under its own
// timeout, so a broken dependency flips the probe without any background
// machinery.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one dependency. It returns nil when the dependency is
// healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Health serves /livez and /readyz style endpoints.
type Health struct {
	ready atomic.Bool

	mu     sync.RWMutex
	checks []check
}

// New creates a Health service. It starts not ready; call SetReady(true)
// once initialization has finished.
func New() *Health {
	return &Health{}
}

// AddReadinessCheck registers a dependency check that runs on every
// readiness probe with the given timeout.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the explicit readiness flag. Flip it to false before
// draining so load balancers stop routing new requests.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// LiveEndpoint reports process liveness. It never touches dependencies.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyEndpoint reports readiness: the explicit flag must be set and every
// registered check must pass.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}

	h.mu.RLock()
	checks := make([]check, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	results := make(map[string]string, len(checks))
	failed := false
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		err := c.fn(ctx)
		cancel()
		if err != nil {
			results[c.name] = err.Error()
			failed = true
		} else {
			results[c.name] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if failed {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	writeStatus(w, status, map[string]any{
		"status": overall,
		"checks": results,
	})
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
