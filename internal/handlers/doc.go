// Package handlers provides the HTTP API of the media board.
//
// It includes handlers for:
//   - Uploads (multipart, optionally replacing an existing image)
//   - Image metadata with the rendered page blocks and admin parts
//   - Original files and thumbnails, plus forced thumbnail regeneration
//   - Health, liveness, version and Prometheus metrics
//
// Upload rejections carry the user-facing message of the failing handler:
//
//	400 invalid or corrupted file
//	404 target does not exist
//	409 duplicate of existing
//	415 no handler accepts the file type
//	422 handler failed to build entity
package handlers
