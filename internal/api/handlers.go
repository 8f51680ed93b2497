package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	core   *service.Core
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(core *service.Core) *Handler {
	return &Handler{core: core, logger: core.Logger()}
}

// ListNotes handles GET /notes.
//
//	@Summary		List notes by recency, optionally filtered by title
//	@Tags			notes
//	@Produce		json
//	@Param			q				query		string	false	"Title substring"
//	@Param			include_deleted	query		bool	false	"Include soft-deleted notes"
//	@Success		200				{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	incl := boolQuery(r, "include_deleted")
	var (
		notes []models.Note
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		notes, err = h.core.Notes.SearchByTitle(r.Context(), q, incl)
	} else {
		notes, err = h.core.Notes.List(r.Context(), incl)
	}
	if err != nil {
		writeError(w, h.logger, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: nonNil(notes), Total: len(notes)})
}

// GetNote handles GET /notes/{id}.
//
//	@Summary		Get a note with its body
//	@Tags			notes
//	@Produce		json
//	@Param			id				path		string	true	"Note id"
//	@Param			include_deleted	query		bool	false	"Allow soft-deleted notes"
//	@Success		200				{object}	models.NoteWithContent
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.core.Notes.Get(r.Context(), chi.URLParam(r, "id"), boolQuery(r, "include_deleted"))
	if err != nil {
		writeError(w, h.logger, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.core.Notes.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(w, h.logger, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PATCH /notes/{id}.
//
//	@Summary		Update a note's title and/or content
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"Changes"
//	@Success		200		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [patch]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := h.core.Notes.Update(r.Context(), chi.URLParam(r, "id"), service.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, h.logger, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}. The note is soft-deleted.
//
//	@Summary		Soft-delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreNote handles POST /notes/{id}/restore.
func (h *Handler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "restore note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteFolders handles GET /notes/{id}/folders.
func (h *Handler) NoteFolders(w http.ResponseWriter, r *http.Request) {
	ms, err := h.core.Notes.GetFolders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "note folders", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": nonNil(ms)})
}

// AddNoteToFolder handles PUT /notes/{id}/folders/{folderID}.
func (h *Handler) AddNoteToFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderMembershipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.core.Notes.AddToFolder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "folderID"), req.IsPrimary, req.Position)
	if err != nil {
		writeError(w, h.logger, "add note to folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNoteFolderPosition handles PUT /notes/{id}/folders/{folderID}/position.
func (h *Handler) UpdateNoteFolderPosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.core.Notes.UpdateFolderPosition(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "folderID"), req.Position)
	if err != nil {
		writeError(w, h.logger, "update note folder position", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveNoteFromFolder handles DELETE /notes/{id}/folders/{folderID}.
func (h *Handler) RemoveNoteFromFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.RemoveFromFolder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "folderID")); err != nil {
		writeError(w, h.logger, "remove note from folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPrimaryFolder handles POST /notes/{id}/folders/{folderID}/primary.
func (h *Handler) SetPrimaryFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.SetPrimaryFolder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "folderID")); err != nil {
		writeError(w, h.logger, "set primary folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteTags handles GET /notes/{id}/tags.
func (h *Handler) NoteTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.core.Notes.GetTags(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "note tags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": nonNil(tags)})
}

// AddNoteTag handles PUT /notes/{id}/tags/{tagID}.
func (h *Handler) AddNoteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.AddTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID")); err != nil {
		writeError(w, h.logger, "add note tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveNoteTag handles DELETE /notes/{id}/tags/{tagID}.
func (h *Handler) RemoveNoteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.RemoveTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID")); err != nil {
		writeError(w, h.logger, "remove note tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteAttachments handles GET /notes/{id}/attachments.
func (h *Handler) NoteAttachments(w http.ResponseWriter, r *http.Request) {
	atts, err := h.core.Notes.GetAttachments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "note attachments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attachments": nonNil(atts)})
}

// AddNoteAttachment handles PUT /notes/{id}/attachments/{attachmentID}.
func (h *Handler) AddNoteAttachment(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.core.Notes.AddAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID"), req.Position)
	if err != nil {
		writeError(w, h.logger, "add note attachment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNoteAttachmentPosition handles PUT /notes/{id}/attachments/{attachmentID}/position.
func (h *Handler) UpdateNoteAttachmentPosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.core.Notes.UpdateAttachmentPosition(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID"), req.Position)
	if err != nil {
		writeError(w, h.logger, "update note attachment position", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveNoteAttachment handles DELETE /notes/{id}/attachments/{attachmentID}.
func (h *Handler) RemoveNoteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Notes.RemoveAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID")); err != nil {
		writeError(w, h.logger, "remove note attachment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NoteBlocks handles GET /notes/{id}/blocks.
func (h *Handler) NoteBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.core.Blocks.GetByNote(r.Context(), chi.URLParam(r, "id"), boolQuery(r, "include_deleted"))
	if err != nil {
		writeError(w, h.logger, "note blocks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": nonNil(blocks)})
}

// NoteLinks handles GET /notes/{id}/links (outgoing).
func (h *Handler) NoteLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.core.Links.GetOutgoing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "outgoing links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": nonNil(links)})
}

// NoteBacklinks handles GET /notes/{id}/backlinks (incoming).
func (h *Handler) NoteBacklinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.core.Links.GetIncoming(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "incoming links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"links": nonNil(links)})
}

// Search handles GET /search.
//
//	@Summary		Full-text search across notes or blocks
//	@Tags			search
//	@Produce		json
//	@Param			q				query		string	true	"Full-text query, passed to the engine verbatim"
//	@Param			scope			query		string	false	"notes (default) or blocks"
//	@Param			include_deleted	query		bool	false	"Include soft-deleted rows"
//	@Param			limit			query		int		false	"Max results, 0 for all"
//	@Success		200				{object}	SearchResponse
//	@Failure		400				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	opts := service.SearchOptions{
		IncludeDeleted: boolQuery(r, "include_deleted"),
		Limit:          intQuery(r, "limit"),
	}
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "notes":
		notes, err := h.core.Search.Notes(r.Context(), q, opts)
		if err != nil {
			writeError(w, h.logger, "search notes", err)
			return
		}
		writeJSON(w, http.StatusOK, SearchResponse{Notes: nonNil(notes)})
	case "blocks":
		blocks, err := h.core.Search.Blocks(r.Context(), q, opts)
		if err != nil {
			writeError(w, h.logger, "search blocks", err)
			return
		}
		writeJSON(w, http.StatusOK, SearchResponse{Blocks: nonNil(blocks)})
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("scope must be notes or blocks"))
	}
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
