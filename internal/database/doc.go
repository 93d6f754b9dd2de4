// Package database is the SQLite-backed image index.
//
// It stores one row per archived image keyed by content hash, the image's
// ordered tag list, and a small key/value metadata table. Lookups by id go
// through an LRU cache that every write invalidates.
//
// The database runs in WAL mode with foreign keys enabled and creates its
// schema on open.
package database
