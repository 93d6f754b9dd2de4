package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-board/internal/filesystem"
	"media-board/internal/logging"
	"media-board/internal/metrics"

	"github.com/gofrs/flock"
)

var log = logging.Named("storage")

// Warehouse directory names.
const (
	KindImages = "images"
	KindThumbs = "thumbs"
)

// ErrInvalidHash is returned for hashes that cannot address a file.
var ErrInvalidHash = errors.New("invalid content hash")

// Warehouse is the on-disk content-addressed tree.
type Warehouse struct {
	root string
	lock *flock.Flock
}

// NewWarehouse prepares root and its images/thumbs subdirectories.
func NewWarehouse(root string) (*Warehouse, error) {
	for _, dir := range []string{root, filepath.Join(root, KindImages), filepath.Join(root, KindThumbs)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return &Warehouse{
		root: root,
		lock: flock.New(filepath.Join(root, ".archive.lock")),
	}, nil
}

// Root returns the warehouse root directory.
func (w *Warehouse) Root() string { return w.root }

// Path returns where a file of kind with hash is stored.
func (w *Warehouse) Path(kind, hash string) string {
	prefix := hash
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return filepath.Join(w.root, kind, prefix, hash)
}

// ImagePath returns the archived original for hash.
func (w *Warehouse) ImagePath(hash string) string { return w.Path(KindImages, hash) }

// ThumbnailPath returns the thumbnail for hash.
func (w *Warehouse) ThumbnailPath(hash string) string { return w.Path(KindThumbs, hash) }

// HasThumbnail reports whether a thumbnail exists for hash.
func (w *Warehouse) HasThumbnail(hash string) bool {
	return filesystem.Exists(w.ThumbnailPath(hash))
}

// Archive copies src into the images tree under hash. Archiving content that
// is already present is a no-op.
func (w *Warehouse) Archive(ctx context.Context, hash, src string) error {
	if !validHash(hash) {
		return fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}

	locked, err := w.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to lock warehouse: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock warehouse %s", w.root)
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			log.Warn("Failed to release warehouse lock: %v", err)
		}
	}()

	dst := w.ImagePath(hash)
	if filesystem.Exists(dst) {
		log.Debug("%s already archived", hash)
		return nil
	}

	start := time.Now()
	n, err := filesystem.CopyFile(src, dst)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", hash, err)
	}
	metrics.ArchiveBytesTotal.Add(float64(n))
	log.Debug("Archived %s (%d bytes) in %v", hash, n, time.Since(start))
	return nil
}

func validHash(hash string) bool {
	if len(hash) < 3 || strings.ContainsAny(hash, `/\.`) {
		return false
	}
	for _, r := range hash {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
