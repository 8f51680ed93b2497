package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/service"
)

// ListFolders handles GET /folders. With roots=true only top-level folders
// are returned, ordered by position; otherwise the whole tree by path.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Folder
		err  error
	)
	if boolQuery(r, "roots") {
		list, err = h.core.Folders.GetRoots(r.Context())
	} else {
		list, err = h.core.Folders.List(r.Context())
	}
	if err != nil {
		writeError(w, h.logger, "list folders", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": nonNil(list)})
}

// CreateFolder handles POST /folders.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	f, err := h.core.Folders.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		writeError(w, h.logger, "create folder", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// GetFolder handles GET /folders/{id}.
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	f, err := h.core.Folders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get folder", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// UpdateFolder handles PATCH /folders/{id}. The stored path is left as is.
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req UpdateFolderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	f, err := h.core.Folders.Update(r.Context(), chi.URLParam(r, "id"), service.FolderUpdate{
		Name:     req.Name,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if err != nil {
		writeError(w, h.logger, "update folder", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteFolder handles DELETE /folders/{id}. A folder with children is a 400.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.core.Folders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FolderChildren handles GET /folders/{id}/children.
func (h *Handler) FolderChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.core.Folders.GetChildren(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "folder children", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": nonNil(children)})
}

// FolderNotes handles GET /folders/{id}/notes.
func (h *Handler) FolderNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.core.Folders.GetNotes(r.Context(), chi.URLParam(r, "id"), boolQuery(r, "include_deleted"))
	if err != nil {
		writeError(w, h.logger, "folder notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: nonNil(notes), Total: len(notes)})
}
