package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"media-board/internal/app"
	"media-board/internal/mediatypes"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are only logged since the status line is already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONStatus writes v as JSON with the given status code.
func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, v)
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatus(w, statusCode, map[string]string{"error": message})
}

// imageFromPath resolves the {id} route variable. On failure the error
// response is already written and nil is returned.
func (h *Handlers) imageFromPath(w http.ResponseWriter, r *http.Request) *mediatypes.Image {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, "invalid image id", http.StatusBadRequest)
		return nil
	}
	img, err := h.app.Image(r.Context(), id)
	switch {
	case errors.Is(err, app.ErrImageNotFound):
		writeJSONError(w, "image not found", http.StatusNotFound)
		return nil
	case err != nil:
		log.Error("Loading image %d: %v", id, err)
		writeJSONError(w, "failed to load image", http.StatusInternalServerError)
		return nil
	}
	return img
}
