package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Check probes a single dependency and reports its availability.
type Check func(ctx context.Context) error

// State is the reported availability of a component.
type State string

const (
	StateUp   State = "up"
	StateDown State = "down"
)

const probeTimeout = 5 * time.Second

// Report is the JSON body of a health endpoint response.
type Report struct {
	Status    State             `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]Result `json:"checks,omitempty"`
}

// Result is the outcome of one dependency probe.
type Result struct {
	Status State  `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler serves liveness and readiness endpoints over a set of
// registered dependency checks.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]Check
}

func NewHandler() *Handler {
	return &Handler{checks: make(map[string]Check)}
}

// Register adds a named dependency check. Registering the same name
// twice replaces the earlier check.
func (h *Handler) Register(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Live reports process liveness. It never consults dependency checks.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeReport(w, http.StatusOK, Report{
		Status:    StateUp,
		Timestamp: time.Now().UTC(),
	})
}

// Ready runs every registered check and returns 503 if any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]Check, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	results := make(map[string]Result, len(checks))
	overall := StateUp
	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = Result{Status: StateDown, Error: err.Error()}
			overall = StateDown
		} else {
			results[name] = Result{Status: StateUp}
		}
	}

	status := http.StatusOK
	if overall == StateDown {
		status = http.StatusServiceUnavailable
	}
	writeReport(w, status, Report{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Checks:    results,
	})
}

func writeReport(w http.ResponseWriter, status int, report Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
