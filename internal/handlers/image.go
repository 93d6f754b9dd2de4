package handlers

import (
	"net/http"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"media-board/internal/events"
	"media-board/internal/filesystem"
	"media-board/internal/mediatypes"
)

// ImageResponse is the JSON view of an image.
type ImageResponse struct {
	Image  *mediatypes.Image `json:"image"`
	Links  ImageLinks        `json:"links"`
	Blocks []events.Block    `json:"blocks"`
	Admin  []events.Part     `json:"admin"`
}

// ImageLinks are the URLs serving the image content.
type ImageLinks struct {
	File      string `json:"file"`
	Thumbnail string `json:"thumbnail"`
}

// GetImage returns the image with its page blocks and admin parts.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	img := h.imageFromPath(w, r)
	if img == nil {
		return
	}

	p, err := h.app.Display(r.Context(), img)
	if err != nil {
		log.Error("Displaying image %d: %v", img.ID, err)
		writeJSONError(w, "failed to render image", http.StatusInternalServerError)
		return
	}
	parts, err := h.app.AdminParts(r.Context(), img)
	if err != nil {
		log.Error("Admin block for image %d: %v", img.ID, err)
		writeJSONError(w, "failed to render image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatus(w, http.StatusOK, ImageResponse{
		Image:  img,
		Links:  ImageLinks{File: img.ImageLink(), Thumbnail: img.ThumbLink()},
		Blocks: p.Blocks(),
		Admin:  parts,
	})
}

// GetImageFile serves the archived original.
func (h *Handlers) GetImageFile(w http.ResponseWriter, r *http.Request) {
	img := h.imageFromPath(w, r)
	if img == nil {
		return
	}
	path := h.app.Store.ImagePath(img.Hash)
	h.serveContent(w, r, path, contentType(path, img.Ext), "public, max-age=31536000, immutable")
}

// GetThumbnail serves the thumbnail, generating it first when missing.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	img := h.imageFromPath(w, r)
	if img == nil {
		return
	}

	path := h.app.Store.ThumbnailPath(img.Hash)
	if !filesystem.Exists(path) {
		if _, err := h.app.RegenerateThumbnail(r.Context(), img, false); err != nil {
			log.Warn("Thumbnail for image %d unavailable: %v", img.ID, err)
			writeJSONError(w, "thumbnail unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	h.serveContent(w, r, path, "image/jpeg", "public, max-age=86400")
}

// RegenerateThumbnail forces a new thumbnail.
func (h *Handlers) RegenerateThumbnail(w http.ResponseWriter, r *http.Request) {
	img := h.imageFromPath(w, r)
	if img == nil {
		return
	}

	tg, err := h.app.RegenerateThumbnail(r.Context(), img, true)
	if err != nil {
		log.Warn("Regenerating thumbnail for image %d: %v", img.ID, err)
		writeJSONError(w, "thumbnail generation failed", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, http.StatusOK, map[string]any{
		"id":        img.ID,
		"generated": tg.Generated,
	})
}

func (h *Handlers) serveContent(w http.ResponseWriter, r *http.Request, path, ctype, cacheControl string) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		if os.IsNotExist(err) {
			writeJSONError(w, "file not found", http.StatusNotFound)
			return
		}
		log.Error("Opening %s: %v", path, err)
		writeJSONError(w, "failed to open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeJSONError(w, "failed to stat file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// contentType prefers the stored extension and sniffs unknown ones.
func contentType(path, ext string) string {
	if ct := mediatypes.GetMimeType(ext); ct != "application/octet-stream" {
		return ct
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}
	return "application/octet-stream"
}
