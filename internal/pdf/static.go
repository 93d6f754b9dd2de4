package pdf

import (
	"image"

	"media-board/internal/thumbnail"
)

// StaticImage is the stand-in first page used when no rasterizer is available.
func StaticImage(cfg thumbnail.Config) image.Image {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = thumbnail.DefaultDimension
	}
	if h <= 0 {
		h = thumbnail.DefaultDimension
	}
	return thumbnail.Placeholder(w, h, "PDF")
}
