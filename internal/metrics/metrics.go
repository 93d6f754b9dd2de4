package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_board_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_board_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_board_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_board_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBImageCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_db_image_cache_lookups_total",
			Help: "Image-by-id cache lookups by result",
		},
		[]string{"result"}, // "hit" or "miss"
	)
)

// Event bus metrics
var (
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_events_published_total",
			Help: "Total number of events published on the bus",
		},
		[]string{"event", "status"},
	)

	EventDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_board_event_dispatch_duration_seconds",
			Help:    "Time spent in a single extension handler",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"event", "extension"},
	)

	EventDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_board_event_dispatch_depth",
			Help:    "Nesting depth at which events are published",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8},
		},
	)

	ExtensionsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_board_extensions_registered",
			Help: "Number of extensions registered on the bus",
		},
	)
)

// Ingestion metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_uploads_total",
			Help: "Upload attempts by handler and outcome",
		},
		[]string{"handler", "outcome"}, // "added", "replaced", "rejected", "failed", "unclaimed"
	)

	ArchiveBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_board_archive_bytes_total",
			Help: "Bytes written into the content-addressed warehouse",
		},
	)
)

// Notification metrics
var (
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_notifications_total",
			Help: "Image event notifications sent to the message bus",
		},
		[]string{"event", "status"},
	)
)

// Import metrics
var (
	ImportFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_import_files_total",
			Help: "Files seen by bulk import by outcome",
		},
		[]string{"outcome"}, // "added", "skipped", "rejected", "failed"
	)

	ImportWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_board_import_workers",
			Help: "Hashing workers used by the last bulk import",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"engine", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_board_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"engine"},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_board_thumbnail_cache_hits_total",
			Help: "Thumbnail requests satisfied by an existing thumbnail",
		},
	)

	ThumbnailPlaceholdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_thumbnail_placeholders_total",
			Help: "Placeholder thumbnails emitted instead of rendering",
		},
		[]string{"reason"}, // "too_large", "static_pdf"
	)

	ExternalCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_board_external_command_duration_seconds",
			Help:    "Duration of external tool invocations",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tool", "status"},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_filesystem_retry_attempts_total",
			Help: "Retry attempts after stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_filesystem_retry_success_total",
			Help: "Operations that succeeded after at least one retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_filesystem_retry_failures_total",
			Help: "Operations that failed after exhausting retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_board_filesystem_stale_errors_total",
			Help: "ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_board_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)
)

// Library metrics
var (
	LibraryImagesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_board_images_total",
			Help: "Total number of stored images by extension",
		},
		[]string{"ext"},
	)

	LibraryTagsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_board_tags_total",
			Help: "Total number of distinct tags",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_board_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
