// Package pixel handles raster images: JPEG, PNG, GIF and WebP.
package pixel

import (
	"context"
	"fmt"
	"html"
	"image"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"media-board/internal/events"
	"media-board/internal/extension"
	"media-board/internal/ingest"
	"media-board/internal/mediatypes"
	"media-board/internal/thumbnail"
)

// ID is the registry id of the pixel handler.
const ID = "pixel"

var (
	supportedExts    = map[string]bool{"jpg": true, "jpeg": true, "gif": true, "png": true, "webp": true}
	supportedFormats = map[string]bool{"jpeg": true, "png": true, "gif": true, "webp": true}
)

// Handler is the pixel media type handler.
type Handler struct {
	*ingest.Handler
	engine thumbnail.Engine
}

// New builds the pixel handler with the configured thumbnail engine.
func New(ectx *extension.Context) (extension.Extension, error) {
	h := &Handler{engine: thumbnail.New(ectx.Thumbs.Engine, ectx.Thumbs)}
	h.Handler = ingest.NewHandler(ID, h, ectx)
	return h, nil
}

func (h *Handler) SupportedExt(ext string) bool {
	return supportedExts[mediatypes.NormalizeExt(ext)]
}

func (h *Handler) CheckContents(path string) bool {
	_, format, err := decodeConfig(path)
	return err == nil && supportedFormats[format]
}

func (h *Handler) CreateImage(path string, meta events.UploadMetadata) (*mediatypes.Image, error) {
	conf, _, err := decodeConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	return ingest.NewImage(meta, conf.Width, conf.Height), nil
}

func (h *Handler) CreateThumb(ctx context.Context, hash string) error {
	return h.engine.Generate(ctx, h.Store().ImagePath(hash), h.Store().ThumbnailPath(hash))
}

// OnImageAdminBlockBuilding adds the zoom selector and the "Image Only" link.
func (h *Handler) OnImageAdminBlockBuilding(_ context.Context, e *events.ImageAdminBlockBuilding) error {
	if e.Image == nil || !h.SupportedExt(e.Image.Ext) {
		return nil
	}

	e.AddPart(`<form>
	<select class='shm-zoomer'>
		<option value='full'>Full Size</option>
		<option value='width'>Fit Width</option>
		<option value='height'>Fit Height</option>
		<option value='both'>Fit Both</option>
	</select>
</form>`, 20)

	link := e.Image.ImageLink()
	hidden := ""
	if strings.Contains(link, "?") {
		hidden = fmt.Sprintf("<input type='hidden' name='q' value='image/%d.%s' />", e.Image.ID, html.EscapeString(e.Image.Ext))
	}
	e.AddPart(fmt.Sprintf(`<form action='%s'>
	%s
	<input type='submit' value='Image Only'>
</form>`, html.EscapeString(link), hidden), 21)
	return nil
}

func decodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}
