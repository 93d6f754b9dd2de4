package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"

	"media-board/internal/events"
	"media-board/internal/mediatypes"
	"media-board/internal/middleware"
)

const multipartMemory = 8 << 20

// UploadResponse is returned for an accepted upload.
type UploadResponse struct {
	ID       int64  `json:"id"`
	Hash     string `json:"hash"`
	Handler  string `json:"handler"`
	Replaced bool   `json:"replaced"`
}

// Upload accepts a multipart form with a "file" part and the optional fields
// tags, source, rating, locked and replace (an image id).
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		writeJSONError(w, fmt.Sprintf("upload exceeds %d bytes", h.maxUpload), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	meta := events.UploadMetadata{
		Filename: header.Filename,
		Source:   r.FormValue("source"),
		Tags:     mediatypes.ExplodeTags(r.FormValue("tags")),
		Rating:   r.FormValue("rating"),
	}
	if v := r.FormValue("locked"); v != "" {
		locked, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, "invalid locked flag", http.StatusBadRequest)
			return
		}
		meta.Locked = locked
	}
	if v := r.FormValue("replace"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeJSONError(w, "invalid replace id", http.StatusBadRequest)
			return
		}
		meta.ReplaceID = id
	}

	tmp, err := h.spool(file)
	if err != nil {
		log.Error("Spooling upload %q: %v", header.Filename, err)
		writeJSONError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp)

	reqID := middleware.GetRequestID(r.Context())
	up, err := h.app.Upload(r.Context(), tmp, meta)
	if err != nil {
		status := uploadStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("[%s] Upload of %q failed: %v", reqID, header.Filename, err)
			writeJSONError(w, "upload failed", status)
			return
		}
		log.Info("[%s] Upload of %q rejected: %s", reqID, header.Filename, events.Message(err))
		writeJSONError(w, events.Message(err), status)
		return
	}
	if up.Handler == "" {
		writeJSONError(w, "unsupported file type: "+up.Type, http.StatusUnsupportedMediaType)
		return
	}

	status := http.StatusCreated
	if meta.IsReplace() {
		status = http.StatusOK
	}
	writeJSONStatus(w, status, UploadResponse{
		ID:       up.ImageID,
		Hash:     up.Hash,
		Handler:  up.Handler,
		Replaced: meta.IsReplace(),
	})
}

// spool copies an upload part into a temp file named with a fresh uuid.
func (h *Handlers) spool(src multipart.File) (string, error) {
	f, err := os.CreateTemp(h.tempDir, "upload-"+uuid.NewString()+"-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// uploadStatus maps a pipeline error to an HTTP status.
func uploadStatus(err error) int {
	if !events.IsRejected(err) {
		return http.StatusInternalServerError
	}
	switch events.Message(err) {
	case events.MsgDuplicate:
		return http.StatusConflict
	case events.MsgTargetMissing:
		return http.StatusNotFound
	case events.MsgEntityBuildFail:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
