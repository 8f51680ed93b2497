package api

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/service"
)

const maxUploadBytes = 50 << 20 // 50 MB

// UploadAttachment handles POST /attachments (multipart/form-data, field
// "file"). Identical payloads resolve to the existing attachment.
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}

	att, reused, err := h.core.Attachments.Import(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, h.logger, "import attachment", err)
		return
	}
	status := http.StatusCreated
	if reused {
		status = http.StatusOK
	}
	writeJSON(w, status, AttachmentUploadResponse{
		Attachment: att,
		Reused:     reused,
		URL:        "/attachments/" + att.ID + "/content",
	})
}

// ListAttachments handles GET /attachments, newest first. With hash set
// it returns the single matching attachment.
func (h *Handler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	if hash := r.URL.Query().Get("hash"); hash != "" {
		att, err := h.core.Attachments.GetByHash(r.Context(), hash)
		if err != nil {
			writeError(w, h.logger, "get attachment by hash", err)
			return
		}
		writeJSON(w, http.StatusOK, att)
		return
	}
	atts, err := h.core.Attachments.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "list attachments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attachments": nonNil(atts)})
}

// GetAttachment handles GET /attachments/{id}.
func (h *Handler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	att, err := h.core.Attachments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get attachment", err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}

// UpdateAttachment handles PATCH /attachments/{id}.
func (h *Handler) UpdateAttachment(w http.ResponseWriter, r *http.Request) {
	var req UpdateAttachmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	att, err := h.core.Attachments.Update(r.Context(), chi.URLParam(r, "id"), service.AttachmentUpdate{FileName: req.FileName})
	if err != nil {
		writeError(w, h.logger, "update attachment", err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}

// DeleteAttachment handles DELETE /attachments/{id}. The row and payload
// are removed; note and block associations go with the row.
func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Attachments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete attachment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachmentContent handles GET /attachments/{id}/content and streams the
// payload with its detected MIME type.
func (h *Handler) AttachmentContent(w http.ResponseWriter, r *http.Request) {
	att, data, err := h.core.Attachments.Read(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "read attachment", err)
		return
	}
	w.Header().Set("Content-Type", att.MimeType)
	w.Header().Set("Content-Disposition", "inline; filename="+strconv.Quote(att.FileName))
	http.ServeContent(w, r, att.FileName, att.UpdatedAt, bytes.NewReader(data))
}
