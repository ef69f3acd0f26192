package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/apperr"
	"github.com/solervi/homehaven-be/internal/storage"
)

// UploadHandler hands out presigned URLs for direct image upload to object
// storage. The API never proxies image bytes.
type UploadHandler struct {
	store storage.Service
}

// NewUploadHandler creates a new UploadHandler. store may be nil when no
// bucket is configured.
func NewUploadHandler(store storage.Service) *UploadHandler {
	return &UploadHandler{store: store}
}

// SignPayload names the file the client wants to upload.
type SignPayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Sign returns a presigned PUT URL plus the public URL to store on the listing.
func (h *UploadHandler) Sign(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		apperr.Write(w, apperr.New(http.StatusServiceUnavailable, "Image storage is not configured"))
		return
	}

	var payload SignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apperr.Write(w, apperr.BadRequest("Invalid request body"))
		return
	}

	upload, err := h.store.PresignImageUpload(r.Context(), payload.Filename, payload.ContentType)
	if err != nil {
		log.Warn().Err(err).Str("filename", payload.Filename).Msg("Failed to presign upload")
		apperr.Write(w, apperr.BadRequest(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, upload)
}
