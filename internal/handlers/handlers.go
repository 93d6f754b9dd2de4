package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"media-board/internal/app"
	"media-board/internal/logging"
)

var log = logging.Named("http")

// Handlers serves the board API over an App.
type Handlers struct {
	app       *app.App
	maxUpload int64
	tempDir   string
	started   time.Time
}

// New returns handlers for a.
func New(a *app.App) *Handlers {
	return &Handlers{
		app:       a,
		maxUpload: a.Config.MaxUploadSize,
		tempDir:   a.Config.Thumbs.TempDir,
		started:   time.Now(),
	}
}

// Register adds every API route to r.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet).Name("health")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("livez")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet).Name("version")
	api.HandleFunc("/upload", h.Upload).Methods(http.MethodPost).Name("upload")
	api.HandleFunc("/image/{id:[0-9]+}", h.GetImage).Methods(http.MethodGet).Name("image")
	api.HandleFunc("/image/{id:[0-9]+}/file", h.GetImageFile).Methods(http.MethodGet, http.MethodHead).Name("image-file")
	api.HandleFunc("/thumbnail/{id:[0-9]+}", h.GetThumbnail).Methods(http.MethodGet, http.MethodHead).Name("thumbnail")
	api.HandleFunc("/thumbnail/{id:[0-9]+}/regenerate", h.RegenerateThumbnail).Methods(http.MethodPost).Name("thumbnail-regenerate")
}
