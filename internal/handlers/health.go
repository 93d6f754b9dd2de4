package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"media-board/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string         `json:"status"`
	Version    string         `json:"version"`
	Uptime     string         `json:"uptime"`
	Driver     string         `json:"driver"`
	Extensions []string       `json:"extensions"`
	Images     map[string]int `json:"images,omitempty"`
	Tags       int            `json:"tags"`
	Error      string         `json:"error,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports database reachability and library totals.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	exts := h.app.Bus.Extensions()
	ids := make([]string, len(exts))
	for i, e := range exts {
		ids[i] = e.ID()
	}

	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Driver:       h.app.Bus.Driver(),
		Extensions:   ids,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	code := http.StatusOK
	stats, err := h.app.DB.LibraryStats(ctx)
	if err != nil {
		response.Status = statusDegraded
		response.Error = "database unavailable"
		code = http.StatusServiceUnavailable
		log.Warn("Health check: %v", err)
	} else {
		response.Images = stats.ImagesByExt
		response.Tags = stats.TotalTags
	}

	writeJSONStatus(w, code, response)
}

// LivenessCheck always returns 200 while the server runs.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}
