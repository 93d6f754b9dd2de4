package thumbnail

import (
	"context"
	"os"
	"sync"

	"media-board/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsMu        sync.Mutex
	vipsStarted   bool
	vipsAvailable bool
)

// vipsLogging maps the application log level onto libvips' own filter and
// forwards what passes into the application logger.
func vipsLogging(level logging.LogLevel) (func(string, vips.LogLevel, string), vips.LogLevel) {
	vlog := logging.Named("vips")
	forward := func(floor vips.LogLevel) func(string, vips.LogLevel, string) {
		return func(domain string, l vips.LogLevel, msg string) {
			if l > floor {
				return
			}
			switch l {
			case vips.LogLevelError, vips.LogLevelCritical:
				vlog.Error("%s: %s", domain, msg)
			case vips.LogLevelWarning:
				vlog.Warn("%s: %s", domain, msg)
			default:
				vlog.Debug("%s: %s", domain, msg)
			}
		}
	}

	switch level {
	case logging.LevelDebug:
		return forward(vips.LogLevelDebug), vips.LogLevelInfo
	case logging.LevelWarn:
		return forward(vips.LogLevelError), vips.LogLevelError
	case logging.LevelError:
		return forward(vips.LogLevelCritical), vips.LogLevelCritical
	default:
		return forward(vips.LogLevelWarning), vips.LogLevelWarning
	}
}

// InitVips starts libvips once. Call it at startup when the vips engine is selected.
func InitVips() error {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsStarted {
		return nil
	}

	vips.LoggingSettings(vipsLogging(logging.GetLevel()))
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsStarted = true
	vipsAvailable = true
	log.Info("libvips initialized (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips.
func ShutdownVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsStarted {
		vips.Shutdown()
		vipsStarted = false
		vipsAvailable = false
		log.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable reports whether InitVips has run.
func IsVipsAvailable() bool {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	return vipsAvailable
}

type vipsEngine struct {
	cfg Config
}

func (e *vipsEngine) Name() string { return EngineVips }

func (e *vipsEngine) Generate(ctx context.Context, src, dst string) error {
	if !IsVipsAvailable() {
		return engineErr(e.Name(), Unavailable, "libvips not initialized")
	}
	if err := ctx.Err(); err != nil {
		return engineErr(e.Name(), ProcessFailed, "%w", err)
	}

	ref, err := vips.LoadImageFromFile(src, vips.NewImportParams())
	if err != nil {
		return engineErr(e.Name(), UnsupportedInput, "load: %w", err)
	}
	defer ref.Close()

	w, h := ref.Width(), ref.Height()
	cw, ch := Clamp(w, h)
	if cw != w || ch != h {
		if err := ref.ExtractArea(0, 0, cw, ch); err != nil {
			return engineErr(e.Name(), ProcessFailed, "crop: %w", err)
		}
	}

	tw, th := Size(e.cfg, cw, ch)
	if err := ref.Thumbnail(tw, th, vips.InterestingNone); err != nil {
		return engineErr(e.Name(), ProcessFailed, "resize: %w", err)
	}

	params := vips.NewJpegExportParams()
	params.Quality = e.cfg.quality()
	params.StripMetadata = true
	params.OptimizeCoding = true
	buf, _, err := ref.ExportJpeg(params)
	if err != nil {
		return engineErr(e.Name(), ProcessFailed, "export: %w", err)
	}

	log.Debug("vips resized %dx%d to %dx%d", w, h, tw, th)
	err = writeAtomic(dst, func(f *os.File) error {
		_, err := f.Write(buf)
		return err
	})
	if err != nil {
		return engineErr(e.Name(), ProcessFailed, "write: %w", err)
	}
	return nil
}
