// Package pdf handles PDF documents. Thumbnails come from the first page via
// pdftoppm when it is installed, otherwise from a generated placeholder.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"media-board/internal/events"
	"media-board/internal/extension"
	"media-board/internal/ingest"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
	"media-board/internal/thumbnail"
)

// ID is the registry id of the PDF handler.
const ID = "pdf"

// Rasterizer names.
const (
	RasterizerPdftoppm = "pdftoppm"
	RasterizerStatic   = "static"
)

const mimePDF = "application/pdf"

var log = logging.Named(ID)

// Handler is the PDF media type handler.
type Handler struct {
	*ingest.Handler

	cfg        thumbnail.Config
	engine     thumbnail.Engine
	rasterizer string
}

// New builds the PDF handler. The rasterizer is chosen on InitExt.
func New(ectx *extension.Context) (extension.Extension, error) {
	h := &Handler{
		cfg:        ectx.Thumbs,
		engine:     thumbnail.New(ectx.Thumbs.Engine, ectx.Thumbs),
		rasterizer: RasterizerStatic,
	}
	h.Handler = ingest.NewHandler(ID, h, ectx)
	return h, nil
}

// Rasterizer returns the active first-page rasterizer.
func (h *Handler) Rasterizer() string { return h.rasterizer }

// OnInitExt probes for pdftoppm.
func (h *Handler) OnInitExt(_ context.Context, _ *events.InitExt) error {
	path := strings.TrimSpace(h.cfg.PdftoppmPath)
	if path == "" {
		h.rasterizer = RasterizerStatic
		return nil
	}
	if resolved, err := exec.LookPath(path); err == nil {
		h.rasterizer = RasterizerPdftoppm
		log.Info("Using %s for PDF thumbnails", resolved)
		return nil
	}
	h.rasterizer = RasterizerStatic
	log.Info("pdftoppm not found, PDF thumbnails use a static placeholder")
	return nil
}

func (h *Handler) SupportedExt(ext string) bool {
	return mediatypes.NormalizeExt(ext) == "pdf"
}

func (h *Handler) CheckContents(path string) bool {
	mt, err := mimetype.DetectFile(path)
	return err == nil && mt.Is(mimePDF)
}

func (h *Handler) CreateImage(path string, meta events.UploadMetadata) (*mediatypes.Image, error) {
	if !h.CheckContents(path) {
		return nil, fmt.Errorf("%s is not a PDF", meta.Filename)
	}
	// Page dimensions are not used for display.
	img := ingest.NewImage(meta, 1, 1)
	img.Ext = "pdf"
	return img, nil
}

func (h *Handler) CreateThumb(ctx context.Context, hash string) error {
	if h.rasterizer == RasterizerPdftoppm {
		return h.firstPageThumb(ctx, hash)
	}
	return h.staticThumb(ctx, hash)
}

// firstPageThumb rasterizes page one to a temporary JPEG and thumbnails it.
func (h *Handler) firstPageThumb(ctx context.Context, hash string) error {
	tmp, err := os.CreateTemp(h.cfg.TempDir, "pdf-thumb-*")
	if err != nil {
		log.Warn("No temp file for pdftoppm, using placeholder: %v", err)
		return h.staticThumb(ctx, hash)
	}
	prefix := tmp.Name()
	tmp.Close()
	page := prefix + ".jpg"
	defer func() {
		os.Remove(prefix)
		os.Remove(page)
	}()

	err = thumbnail.RunTool(ctx, h.cfg, RasterizerPdftoppm, h.cfg.PdftoppmPath,
		"-jpeg", "-singlefile", "-f", "1", "-l", "1", h.Store().ImagePath(hash), prefix)
	if err != nil {
		return err
	}
	return h.engine.Generate(ctx, page, h.Store().ThumbnailPath(hash))
}

// staticThumb feeds a generated document placeholder through the engine.
func (h *Handler) staticThumb(ctx context.Context, hash string) error {
	tmp, err := os.CreateTemp(h.cfg.TempDir, "pdf-static-*.jpg")
	if err != nil {
		return fmt.Errorf("create placeholder: %w", err)
	}
	name := tmp.Name()
	tmp.Close()
	defer os.Remove(name)

	if err := thumbnail.WriteJPEG(name, StaticImage(h.cfg), 90); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	metrics.ThumbnailPlaceholdersTotal.WithLabelValues("static_pdf").Inc()
	return h.engine.Generate(ctx, name, h.Store().ThumbnailPath(hash))
}
