package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"media-board/internal/logging"
	"media-board/internal/metrics"
)

var log = logging.Named("filesystem")

// VolumeResolver maps paths to volume labels for metrics, longest prefix first.
type VolumeResolver struct {
	mounts []volumeMount
}

type volumeMount struct {
	prefix string
	name   string
}

// NewVolumeResolver builds a resolver from label → directory.
//
//	NewVolumeResolver(map[string]string{
//	    "images": "/data/images",
//	    "thumbs": "/data/thumbs",
//	})
func NewVolumeResolver(volumes map[string]string) *VolumeResolver {
	mounts := make([]volumeMount, 0, len(volumes))
	for name, dir := range volumes {
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		mounts = append(mounts, volumeMount{prefix: strings.TrimSuffix(abs, "/") + "/", name: name})
	}
	sort.Slice(mounts, func(i, j int) bool {
		if len(mounts[i].prefix) != len(mounts[j].prefix) {
			return len(mounts[i].prefix) > len(mounts[j].prefix)
		}
		return mounts[i].name < mounts[j].name
	})
	return &VolumeResolver{mounts: mounts}
}

// Resolve returns the volume label for path, or "unknown".
func (vr *VolumeResolver) Resolve(path string) string {
	if vr == nil {
		return "unknown"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "unknown"
	}
	for _, m := range vr.mounts {
		if strings.HasPrefix(abs+"/", m.prefix) {
			return m.name
		}
	}
	return "unknown"
}

var defaultResolver *VolumeResolver

// SetDefaultVolumeResolver installs the resolver used when a RetryConfig has none.
func SetDefaultVolumeResolver(vr *VolumeResolver) {
	defaultResolver = vr
}

// RetryConfig controls how stale-handle failures are retried.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	VolumeResolver *VolumeResolver
}

// DefaultRetryConfig returns 3 retries with 50ms..500ms exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

func (c RetryConfig) volume(path string) string {
	if c.VolumeResolver != nil {
		return c.VolumeResolver.Resolve(path)
	}
	return defaultResolver.Resolve(path)
}

func isStaleHandle(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// retry runs fn until it succeeds, fails with a non-ESTALE error, or the
// retry budget is spent.
func retry(op, path string, cfg RetryConfig, fn func() error) error {
	start := time.Now()
	volume := cfg.volume(path)
	defer func() {
		metrics.FilesystemRetryDuration.WithLabelValues(op, volume).Observe(time.Since(start).Seconds())
	}()

	backoff := cfg.InitialBackoff
	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			if attempt > 0 {
				log.Info("%s succeeded on retry %d for %s", op, attempt, path)
				metrics.FilesystemRetrySuccess.WithLabelValues(op, volume).Inc()
			}
			return nil
		}
		if !isStaleHandle(err) {
			return err
		}

		metrics.FilesystemStaleErrors.WithLabelValues(op, volume).Inc()
		if attempt == cfg.MaxRetries {
			break
		}

		metrics.FilesystemRetryAttempts.WithLabelValues(op, volume).Inc()
		log.Debug("%s stale file handle for %s, retrying in %v (attempt %d/%d)", op, path, backoff, attempt+1, cfg.MaxRetries)
		time.Sleep(backoff)
		backoff = min(backoff*2, cfg.MaxBackoff)
	}

	log.Warn("%s failed after %d retries for %s: %v", op, cfg.MaxRetries, path, err)
	metrics.FilesystemRetryFailures.WithLabelValues(op, volume).Inc()
	return err
}

// StatWithRetry is os.Stat that retries stale NFS handles.
func StatWithRetry(path string, cfg RetryConfig) (os.FileInfo, error) {
	var info os.FileInfo
	err := retry("stat", path, cfg, func() error {
		var err error
		info, err = os.Stat(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// OpenWithRetry is os.Open that retries stale NFS handles.
func OpenWithRetry(path string, cfg RetryConfig) (*os.File, error) {
	var f *os.File
	err := retry("open", path, cfg, func() error {
		var err error
		f, err = os.Open(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := StatWithRetry(path, DefaultRetryConfig())
	return err == nil && info.Mode().IsRegular()
}
