package ingest

import (
	"context"
	"fmt"

	"media-board/internal/events"
	"media-board/internal/extension"
	"media-board/internal/filesystem"
	"media-board/internal/logging"
	"media-board/internal/mediatypes"
	"media-board/internal/metrics"
	"media-board/internal/storage"
)

// MediaType is the format-specific half of a handler.
type MediaType interface {
	// SupportedExt reports whether uploads declaring ext belong to this handler.
	SupportedExt(ext string) bool
	// CheckContents sniffs the file at path.
	CheckContents(path string) bool
	// CreateImage builds the entity for the file at path.
	CreateImage(path string, meta events.UploadMetadata) (*mediatypes.Image, error)
	// CreateThumb renders the thumbnail for an archived hash.
	CreateThumb(ctx context.Context, hash string) error
}

// Theme renders an image for display.
type Theme interface {
	DisplayImage(page events.Page, img *mediatypes.Image)
}

// Handler implements the upload, thumbnail and display events on top of a MediaType.
type Handler struct {
	extension.Base

	media MediaType
	store storage.Store
	bus   extension.Publisher
	log   logging.Logger
}

// NewHandler returns a Handler for media registered under id.
func NewHandler(id string, media MediaType, ectx *extension.Context, opts ...extension.Option) *Handler {
	return &Handler{
		Base:  extension.NewBase(id, opts...),
		media: media,
		store: ectx.Store,
		bus:   ectx.Bus,
		log:   logging.Named(id),
	}
}

// Store returns the storage collaborator.
func (h *Handler) Store() storage.Store { return h.store }

// OnDataUpload runs the ingestion pipeline for uploads of a supported type.
func (h *Handler) OnDataUpload(ctx context.Context, e *events.DataUpload) error {
	if !h.media.SupportedExt(e.Type) {
		return events.NotApplicable("upload", "unsupported type "+e.Type)
	}

	outcome := "failed"
	defer func() { metrics.UploadsTotal.WithLabelValues(h.ID(), outcome).Inc() }()

	if !h.media.CheckContents(e.TmpName) {
		outcome = "rejected"
		h.log.Info("Rejected %s: content does not match .%s", e.Metadata.Filename, e.Type)
		return events.UploadError(events.MsgInvalidFile)
	}

	var target *mediatypes.Image
	if e.Metadata.IsReplace() {
		var err error
		target, err = h.store.FindImageByID(ctx, e.Metadata.ReplaceID)
		if err != nil {
			return events.Fatal("find replace target", err)
		}
		if target == nil {
			outcome = "rejected"
			return events.UploadError(events.MsgTargetMissing)
		}
		if target.Hash == e.Hash {
			outcome = "rejected"
			return events.UploadError(events.MsgDuplicate)
		}
	}

	if err := h.store.Archive(ctx, e.Hash, e.TmpName); err != nil {
		return events.Fatal("archive", err)
	}

	h.generateThumbnail(ctx, e.Hash, e.Type)

	img, err := h.media.CreateImage(e.TmpName, e.Metadata)
	if err != nil || img == nil {
		h.log.Warn("Archived %s but could not build entity: %v", e.Hash, err)
		outcome = "rejected"
		return &events.Error{Kind: events.KindRejected, Op: "upload", Msg: events.MsgEntityBuildFail, Err: err}
	}

	if target != nil {
		// The stored row keeps its identity, rating, lock and posted time.
		img.ID = target.ID
		img.Tags = append([]string(nil), target.Tags...)
		img.Rating = target.Rating
		img.Locked = target.Locked
		img.Posted = target.Posted
		if err := h.bus.Publish(ctx, &events.ImageReplace{ID: target.ID, Image: img}); err != nil {
			h.log.Warn("Archived %s but replace of image %d failed: %v", e.Hash, target.ID, err)
			return err
		}
		e.ImageID = target.ID
		e.Handler = h.ID()
		outcome = "replaced"
		h.log.Info("Replaced image %d with %s", target.ID, e.Hash)
		return nil
	}

	if err := h.bus.Publish(ctx, &events.ImageAddition{Image: img}); err != nil {
		h.log.Warn("Archived %s but addition failed: %v", e.Hash, err)
		return err
	}
	e.ImageID = img.ID
	e.Handler = h.ID()
	outcome = "added"

	if img.ID != 0 {
		h.applyFollowUps(ctx, img, e.Metadata)
	}
	h.log.Info("Added image %d (%s, %dx%d)", img.ID, e.Hash, img.Width, img.Height)
	return nil
}

// applyFollowUps publishes rating and lock requests carried in the upload.
// Failures are logged; the image is already stored.
func (h *Handler) applyFollowUps(ctx context.Context, img *mediatypes.Image, meta events.UploadMetadata) {
	if meta.Rating != "" {
		if err := h.bus.Publish(ctx, &events.RatingSet{Image: img, Rating: meta.Rating}); err != nil {
			h.log.Warn("Setting rating on image %d failed: %v", img.ID, err)
		}
	}
	if meta.Locked {
		if err := h.bus.Publish(ctx, &events.LockSet{Image: img, Locked: true}); err != nil {
			h.log.Warn("Locking image %d failed: %v", img.ID, err)
		}
	}
}

func (h *Handler) generateThumbnail(ctx context.Context, hash, typ string) {
	tg := &events.ThumbnailGeneration{Hash: hash, Type: typ}
	if err := h.bus.Publish(ctx, tg); err != nil {
		h.log.Warn("Thumbnail request for %s failed: %v", hash, err)
		return
	}
	if tg.Err != nil {
		h.log.Warn("Thumbnail for %s not generated: %v", hash, tg.Err)
	}
}

// OnThumbnailGeneration builds the thumbnail unless one exists and the
// request is not forced.
func (h *Handler) OnThumbnailGeneration(ctx context.Context, e *events.ThumbnailGeneration) error {
	if !h.media.SupportedExt(e.Type) {
		return nil
	}

	if !e.Force && filesystem.Exists(h.store.ThumbnailPath(e.Hash)) {
		metrics.ThumbnailCacheHits.Inc()
		return nil
	}

	if err := h.media.CreateThumb(ctx, e.Hash); err != nil {
		e.Err = fmt.Errorf("%s: %w", h.ID(), err)
		h.log.Warn("Thumbnail generation for %s failed: %v", e.Hash, err)
		return nil
	}
	e.Generated = true
	return nil
}

// OnDisplayingImage hands images of a supported type to the theme.
func (h *Handler) OnDisplayingImage(_ context.Context, e *events.DisplayingImage) error {
	if e.Image == nil || !h.media.SupportedExt(e.Image.Ext) {
		return nil
	}
	theme, ok := h.Theme().(Theme)
	if !ok {
		h.log.Debug("No theme bound, nothing to display for image %d", e.Image.ID)
		return nil
	}
	theme.DisplayImage(e.Page, e.Image)
	return nil
}
