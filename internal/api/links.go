package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/models"
)

// CreateLink handles POST /links. link_type selects between a note link
// (target_note_id) and a block reference (source_block_id, target_block_id).
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var (
		link *models.Link
		err  error
	)
	switch req.LinkType {
	case models.LinkNote:
		link, err = h.core.Links.CreateNoteLink(r.Context(), req.SourceNoteID, req.TargetNoteID, req.LinkText)
	case models.LinkBlockReference:
		link, err = h.core.Links.CreateBlockReference(r.Context(), req.SourceBlockID, req.TargetBlockID, req.SourceNoteID)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("link_type must be note_link or block_reference"))
		return
	}
	if err != nil {
		writeError(w, h.logger, "create link", err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// GetLink handles GET /links/{id}.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.core.Links.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get link", err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// DeleteLink handles DELETE /links/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Links.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete link", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
