// Package metrics provides Prometheus instrumentation for the media board.
//
// All metrics are registered through promauto at package initialisation and
// are prefixed with "media_board_". The categories are:
//
//   - HTTP: request counts, durations and in-flight gauge
//   - Database: query counts and durations, image cache hit ratio
//   - Event bus: events published, per-extension handler duration, nesting depth
//   - Ingestion: upload outcomes per handler, bytes archived
//   - Thumbnails: generations per engine, placeholders, external tool durations
//   - Filesystem: stale-handle retry behaviour on the warehouse volumes
//   - Library: image and tag totals refreshed by the Collector
//
// Call InitializeMetrics once at startup so every label combination is
// exported from the first scrape.
package metrics
