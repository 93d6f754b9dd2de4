package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"media-board/internal/app"
	"media-board/internal/handlers"
	"media-board/internal/middleware"
	"media-board/internal/startup"
	"media-board/internal/thumbnail"
)

func newTestHandlers(t *testing.T) (*handlers.Handlers, *startup.Config) {
	t.Helper()
	root := t.TempDir()
	thumbs := thumbnail.DefaultConfig()
	thumbs.PdftoppmPath = ""
	thumbs.TempDir = t.TempDir()
	cfg := &startup.Config{
		DataDir:       root,
		DatabaseDir:   root,
		WarehouseDir:  filepath.Join(root, "warehouse"),
		DatabasePath:  filepath.Join(root, "board.db"),
		MaxUploadSize: startup.DefaultMaxUploadSize,
		Thumbs:        thumbs,
	}
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return handlers.New(a), cfg
}

func TestSetupRouter(t *testing.T) {
	h, _ := newTestHandlers(t)
	routes, err := startup.GetRoutes(setupRouter(h))
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}

	got := make(map[string]bool)
	for _, r := range routes {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/upload",
		"GET /api/image/{id:[0-9]+}",
		"GET /api/image/{id:[0-9]+}/file",
		"GET /api/thumbnail/{id:[0-9]+}",
		"POST /api/thumbnail/{id:[0-9]+}/regenerate",
		"GET /api/version",
		"GET /health",
		"GET /livez",
	} {
		if !got[want] {
			t.Errorf("route %q not registered", want)
		}
	}
}

func TestWrapHandler(t *testing.T) {
	h, cfg := newTestHandlers(t)
	handler := wrapHandler(setupRouter(h), cfg)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET /livez = %d", rr.Code)
	}
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("response has no request id")
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("GET /api/nothing = %d, want 404", rr.Code)
	}
}

func TestServerTimeouts(t *testing.T) {
	srv := newServer(":0", http.NotFoundHandler())

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"ReadTimeout", srv.ReadTimeout, readTimeout},
		{"WriteTimeout", srv.WriteTimeout, writeTimeout},
		{"IdleTimeout", srv.IdleTimeout, idleTimeout},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
		if tt.got <= 0 {
			t.Errorf("%s must be set", tt.name)
		}
	}
}

func TestMetricsServer(t *testing.T) {
	srv := newMetricsServer(":0")
	if srv.ReadTimeout != metricsTimeout || srv.WriteTimeout != metricsTimeout {
		t.Errorf("timeouts = %v/%v", srv.ReadTimeout, srv.WriteTimeout)
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("empty metrics body")
	}
}
