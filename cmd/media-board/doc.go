// Package main runs the media board HTTP server.
//
// Startup order:
//
//  1. Memory: GOMEMLIMIT from MEMORY_LIMIT, and the decode ceiling derived from it
//  2. Configuration: environment over the optional CONFIG_FILE TOML overlay
//  3. App: database, warehouse, thumbnail engines, extension bus, optional NATS
//  4. HTTP: API routes on PORT, Prometheus metrics on METRICS_PORT
//
// SIGINT or SIGTERM drains both servers, stops the metrics collector and
// closes the database.
//
// # API
//
//	POST /api/upload                       multipart upload (file, tags, source, rating, locked, replace)
//	GET  /api/image/{id}                   image metadata, page blocks and admin parts
//	GET  /api/image/{id}/file              original file
//	GET  /api/thumbnail/{id}               thumbnail, generated on demand
//	POST /api/thumbnail/{id}/regenerate    forced thumbnail regeneration
//	GET  /api/version                      build information
//	GET  /health, /livez                   health and liveness
package main
