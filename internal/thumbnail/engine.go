package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-board/internal/logging"
	"media-board/internal/metrics"

	"github.com/disintegration/imaging"
)

var log = logging.Named("thumbnail")

// Engine renders the thumbnail of src into dst.
type Engine interface {
	Name() string
	Generate(ctx context.Context, src, dst string) error
}

// Names lists the selectable engines.
func Names() []string {
	return []string{EngineGD, EngineVips, EngineConvert, EngineEpeg}
}

// New returns the engine called name, falling back to the in-process engine
// for unknown names. The returned engine records generation metrics.
func New(name string, cfg Config) Engine {
	var e Engine
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EngineGD, EngineImaging, "":
		e = &imagingEngine{cfg: cfg}
	case EngineVips:
		e = &vipsEngine{cfg: cfg}
	case EngineConvert:
		e = &convertEngine{cfg: cfg}
	case EngineEpeg:
		e = &epegEngine{cfg: cfg}
	default:
		log.Warn("Unknown engine %q, using %s", name, EngineGD)
		e = &imagingEngine{cfg: cfg}
	}
	return observed{Engine: e}
}

type observed struct {
	Engine
}

func (o observed) Generate(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := o.Engine.Generate(ctx, src, dst)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ThumbnailGenerationsTotal.WithLabelValues(o.Name(), status).Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(o.Name()).Observe(time.Since(start).Seconds())
	return err
}

// IsKind reports whether err is an *EngineError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Kind == kind
}

// WriteJPEG encodes img to dst through a temporary sibling file.
func WriteJPEG(dst string, img image.Image, quality int) error {
	return writeAtomic(dst, func(f *os.File) error {
		return imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(quality))
	})
}

func writeAtomic(dst string, write func(f *os.File) error) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, dst); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// decodeConfig reads only the header of src.
func decodeConfig(src string) (image.Config, string, error) {
	f, err := os.Open(src)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}
