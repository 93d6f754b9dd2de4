// Package memory configures the Go runtime memory limit in containers and
// derives the ceiling for in-process image decodes from it.
//
// Unlike GOMAXPROCS, which Go detects from cgroup CPU limits, GOMEMLIMIT must
// be set explicitly. Call [ConfigureFromEnv] early in main, before significant
// allocations:
//
//	result := memory.ConfigureFromEnv()
//	cfg.Thumbs.MemoryLimit = result.Limit(cfg.Thumbs.MemoryLimit)
//
// # Environment Variables
//
//   - GOMEMLIMIT: standard Go variable; when set it wins and is only reported
//   - MEMORY_LIMIT: container limit in bytes, typically from the Downward API
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the heap, default 0.85
//
// The remaining 15% is left for libvips and external converters, which
// allocate outside the Go heap.
//
// # Thumbnail ceiling
//
// [ConfigResult.Limit] returns half the heap limit, capped by the configured
// thumbnail memory limit. The in-process engine compares its decode estimate
// against this value and emits a placeholder instead of decoding when the
// estimate is larger.
package memory
