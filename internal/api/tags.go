package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/service"
)

// ListTags handles GET /tags. Tags are ordered by name.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		tag, err := h.core.Tags.GetByName(r.Context(), name)
		if err != nil {
			writeError(w, h.logger, "get tag by name", err)
			return
		}
		writeJSON(w, http.StatusOK, tag)
		return
	}
	tags, err := h.core.Tags.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": nonNil(tags)})
}

// CreateTag handles POST /tags. A duplicate name is a 409.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.core.Tags.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.logger, "create tag", err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// GetTag handles GET /tags/{id}.
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.core.Tags.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get tag", err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// UpdateTag handles PATCH /tags/{id}.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req UpdateTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.core.Tags.Update(r.Context(), chi.URLParam(r, "id"), service.TagUpdate{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		writeError(w, h.logger, "update tag", err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTag handles DELETE /tags/{id}.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Tags.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TagNotes handles GET /tags/{id}/notes.
func (h *Handler) TagNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.core.Tags.GetNotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "tag notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: nonNil(notes), Total: len(notes)})
}
