// Package startup handles configuration loading and the sectioned
// startup/shutdown logging of the server and CLI.
//
// # Configuration
//
// [LoadConfig] reads environment variables over an optional TOML file named
// by CONFIG_FILE. Values set in the environment win over the file, which in
// turn wins over the built-in defaults.
//
//   - DATA_DIR: warehouse root holding images/ and thumbs/ (default: /data)
//   - DATABASE_DIR: directory for board.db (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics port (default: 9090)
//   - METRICS_ENABLED: serve metrics (default: true)
//   - LOG_HEALTH_CHECKS: log /health and /livez requests (default: true)
//   - UPLOAD_MAX_SIZE: upload body limit in bytes (default: 64 MiB)
//   - THUMB_ENGINE: gd, imaging, vips, convert or epeg (default: gd)
//   - THUMB_WIDTH, THUMB_HEIGHT, THUMB_QUALITY: thumbnail box and JPEG quality
//   - THUMB_UPSCALE, THUMB_OPTIMIZE: upscale small images, run jpegoptim
//   - CONVERT_PATH, EPEG_PATH, JPEGOPTIM_PATH, PDFTOPPM_PATH: tool binaries
//   - THUMB_MEMORY_LIMIT: in-process decode ceiling in bytes
//   - THUMB_COMMAND_TIMEOUT: external tool timeout as Go duration (default: 60s)
//   - TMP_DIR: scratch directory for rasterized pages (default: DATA_DIR/tmp)
//   - NATS_URL, NATS_SUBJECT: enable image event notifications
//
// A config file carries the same thumbnail and NATS settings:
//
//	[thumbnails]
//	engine = "convert"
//	width = 250
//	height = 250
//	optimize = true
//	command_timeout = 30
//
//	[nats]
//	url = "nats://localhost:4222"
//	subject = "board"
//
// # Logging
//
// The Log* helpers print fixed sections (banner, system information,
// configuration, database, thumbnail engine, extensions, HTTP routes,
// shutdown) so logs from every deployment read the same way.
package startup
