package thumbnail

import (
	"context"
	"image"
	"image/color"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"media-board/internal/metrics"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// TooLargeText is drawn on the placeholder for images over the memory limit.
const TooLargeText = "Image Too Large :("

type imagingEngine struct {
	cfg Config
}

func (e *imagingEngine) Name() string { return EngineGD }

func (e *imagingEngine) Generate(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return engineErr(e.Name(), UnsupportedInput, "stat source: %w", err)
	}
	conf, format, err := decodeConfig(src)
	if err != nil {
		return engineErr(e.Name(), UnsupportedInput, "read header: %w", err)
	}

	need := EstimateMemory(info.Size(), conf.Width, conf.Height)
	if e.cfg.MemoryLimit > 0 && need > e.cfg.MemoryLimit {
		log.Info("Source %dx%d needs ~%d bytes (limit %d), writing placeholder", conf.Width, conf.Height, need, e.cfg.MemoryLimit)
		metrics.ThumbnailPlaceholdersTotal.WithLabelValues("too_large").Inc()
		if err := WriteJPEG(dst, TooLargePlaceholder(e.cfg), e.cfg.quality()); err != nil {
			return engineErr(e.Name(), ProcessFailed, "write placeholder: %w", err)
		}
		return nil
	}

	if err := ctx.Err(); err != nil {
		return engineErr(e.Name(), ProcessFailed, "%w", err)
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return engineErr(e.Name(), UnsupportedInput, "decode %s: %w", format, err)
	}

	b := img.Bounds()
	cw, ch := Clamp(b.Dx(), b.Dy())
	if cw != b.Dx() || ch != b.Dy() {
		img = imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+cw, b.Min.Y+ch))
	}

	tw, th := Size(e.cfg, cw, ch)
	thumb := imaging.Resize(img, tw, th, imaging.Lanczos)

	log.Debug("Resized %s source %dx%d to %dx%d", format, b.Dx(), b.Dy(), tw, th)
	if err := WriteJPEG(dst, thumb, e.cfg.quality()); err != nil {
		return engineErr(e.Name(), ProcessFailed, "encode: %w", err)
	}
	return nil
}

// TooLargePlaceholder is the fixed thumbnail used when a source is too big to
// decode: the configured width, at most 64 pixels tall, white with black text.
func TooLargePlaceholder(cfg Config) image.Image {
	w, h := cfg.box()
	return Placeholder(w, min(h, 64), TooLargeText)
}

// Placeholder renders text in black at (10,24) on a white w×h canvas.
func Placeholder(w, h int, text string) *image.NRGBA {
	canvas := imaging.New(w, h, color.White)
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 24+basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)
	return canvas
}
