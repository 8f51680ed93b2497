package api

import (
	"github.com/synapse/synapse/internal/models"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title" example:"Quarterly Report" validate:"required"`
	Content string `json:"content" example:"Revenue grew."`
}

// UpdateNoteRequest carries independently optional title and content.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// FolderMembershipRequest places a note in a folder.
type FolderMembershipRequest struct {
	IsPrimary bool  `json:"is_primary"`
	Position  int64 `json:"position"`
}

// PositionRequest reorders a junction row.
type PositionRequest struct {
	Position int64 `json:"position"`
}

// CreateBlockRequest is the request body for creating a block.
type CreateBlockRequest struct {
	NoteID    string           `json:"note_id" validate:"required"`
	BlockType models.BlockType `json:"block_type" example:"paragraph" validate:"required"`
	Content   string           `json:"content"`
	Position  int64            `json:"position"`
}

// UpdateBlockRequest carries optional block changes.
type UpdateBlockRequest struct {
	BlockType *models.BlockType `json:"block_type,omitempty"`
	Content   *string           `json:"content,omitempty"`
	Position  *int64            `json:"position,omitempty"`
}

// CreateReferenceRequest links the path block to a target block.
type CreateReferenceRequest struct {
	TargetBlockID string `json:"target_block_id" validate:"required"`
}

// CreateFolderRequest is the request body for creating a folder.
type CreateFolderRequest struct {
	Name     string  `json:"name" example:"Projects" validate:"required"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest carries optional folder changes. An empty parent_id
// moves the folder to the root.
type UpdateFolderRequest struct {
	Name     *string `json:"name,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
	Position *int64  `json:"position,omitempty"`
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" example:"work" validate:"required"`
}

// UpdateTagRequest carries optional tag changes. Empty color or icon clears it.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// CreateLinkRequest creates a note link or a block reference link,
// selected by link_type.
type CreateLinkRequest struct {
	LinkType      models.LinkType `json:"link_type" example:"note_link" validate:"required"`
	SourceNoteID  string          `json:"source_note_id" validate:"required"`
	TargetNoteID  string          `json:"target_note_id,omitempty"`
	SourceBlockID string          `json:"source_block_id,omitempty"`
	TargetBlockID string          `json:"target_block_id,omitempty"`
	LinkText      string          `json:"link_text,omitempty"`
}

// UpdateAttachmentRequest renames an attachment.
type UpdateAttachmentRequest struct {
	FileName *string `json:"file_name,omitempty"`
}

// AttachmentUploadResponse is returned after an upload.
type AttachmentUploadResponse struct {
	Attachment *models.Attachment `json:"attachment" validate:"required"`
	Reused     bool               `json:"reused"`
	URL        string             `json:"url" example:"/attachments/attachment-1f0c.../content" validate:"required"`
}

// SearchResponse wraps search hits. Exactly one slice is set, by scope.
type SearchResponse struct {
	Notes  []models.Note  `json:"notes,omitempty"`
	Blocks []models.Block `json:"blocks,omitempty"`
}
