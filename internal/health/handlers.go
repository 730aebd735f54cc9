package health

import (
	"encoding/json"
	"net/http"
)

// Checker reports the state of the in-process dependencies.
type Checker interface {
	CatalogSize() int
	ScenarioCount() int
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness: the process is ready once a validated catalog is loaded.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	items := h.Checker.CatalogSize()
	status := map[string]any{
		"catalog_items": items,
		"scenarios":     h.Checker.ScenarioCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	if items == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}
