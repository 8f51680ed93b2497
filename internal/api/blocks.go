package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/service"
)

// CreateBlock handles POST /blocks.
func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.core.Blocks.Create(r.Context(), service.BlockInput{
		NoteID:    req.NoteID,
		BlockType: req.BlockType,
		Content:   req.Content,
		Position:  req.Position,
	})
	if err != nil {
		writeError(w, h.logger, "create block", err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// GetBlock handles GET /blocks/{id}.
func (h *Handler) GetBlock(w http.ResponseWriter, r *http.Request) {
	b, err := h.core.Blocks.Get(r.Context(), chi.URLParam(r, "id"), boolQuery(r, "include_deleted"))
	if err != nil {
		writeError(w, h.logger, "get block", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpdateBlock handles PATCH /blocks/{id}.
func (h *Handler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	var req UpdateBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.core.Blocks.Update(r.Context(), chi.URLParam(r, "id"), service.BlockUpdate{
		BlockType: req.BlockType,
		Content:   req.Content,
		Position:  req.Position,
	})
	if err != nil {
		writeError(w, h.logger, "update block", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBlock handles DELETE /blocks/{id}. The block is soft-deleted.
func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Blocks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete block", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreBlock handles POST /blocks/{id}/restore.
func (h *Handler) RestoreBlock(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Blocks.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "restore block", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateBlockReference handles POST /blocks/{id}/references.
func (h *Handler) CreateBlockReference(w http.ResponseWriter, r *http.Request) {
	var req CreateReferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ref, err := h.core.Blocks.CreateReference(r.Context(), chi.URLParam(r, "id"), req.TargetBlockID)
	if err != nil {
		writeError(w, h.logger, "create block reference", err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// DeleteBlockReference handles DELETE /blocks/{id}/references/{targetID}.
func (h *Handler) DeleteBlockReference(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Blocks.DeleteReference(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "targetID")); err != nil {
		writeError(w, h.logger, "delete block reference", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReferencedBlocks handles GET /blocks/{id}/references: blocks this block points at.
func (h *Handler) ReferencedBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.core.Blocks.GetReferencedBlocks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "referenced blocks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": nonNil(blocks)})
}

// ReferencingBlocks handles GET /blocks/{id}/referencing: blocks pointing here.
func (h *Handler) ReferencingBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.core.Blocks.GetReferencingBlocks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "referencing blocks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": nonNil(blocks)})
}

// BlockAttachments handles GET /blocks/{id}/attachments.
func (h *Handler) BlockAttachments(w http.ResponseWriter, r *http.Request) {
	atts, err := h.core.Blocks.GetAttachments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "block attachments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attachments": nonNil(atts)})
}

// AddBlockAttachment handles PUT /blocks/{id}/attachments/{attachmentID}.
func (h *Handler) AddBlockAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Blocks.AddAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID")); err != nil {
		writeError(w, h.logger, "add block attachment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveBlockAttachment handles DELETE /blocks/{id}/attachments/{attachmentID}.
func (h *Handler) RemoveBlockAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Blocks.RemoveAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID")); err != nil {
		writeError(w, h.logger, "remove block attachment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BlockLinks handles GET /blocks/{id}/links: links sourced from or
// targeting the block, selected by direction=out|in.
func (h *Handler) BlockLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		links []models.Link
		err   error
	)
	switch r.URL.Query().Get("direction") {
	case "", "out":
		links, err = h.core.Links.GetFromBlock(r.Context(), id)
	case "in":
		links, err = h.core.Links.GetToBlock(r.Context(), id)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("direction must be in or out"))
		return
	}
	if err != nil {
		writeError(w, h.logger, "block links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": nonNil(links)})
}
