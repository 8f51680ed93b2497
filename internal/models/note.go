// Package models defines the domain records of the knowledge base.
package models

import "time"

// Note is the metadata row of a note. The body lives in a file at
// <data dir>/ContentPath and is never duplicated in the row.
type Note struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ContentPath string     `json:"content_path"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	WordCount   int64      `json:"word_count"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// NoteWithContent joins a note row with the body read from disk.
type NoteWithContent struct {
	Note
	Content string `json:"content"`
}

// Block is an ordered, typed fragment of a note.
type Block struct {
	ID        string     `json:"id"`
	NoteID    string     `json:"note_id"`
	BlockType BlockType  `json:"block_type"`
	Content   string     `json:"content"`
	Position  int64      `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Folder is a node of the folder tree. Path is materialized once at
// creation and is not re-derived on rename or move.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Position  int64     `json:"position"`
}

// Tag has a globally unique, case-sensitive name.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Link is a directed edge from a note (optionally a block inside it) to
// another note or block. Exactly one target kind is set, matching LinkType.
type Link struct {
	ID            string    `json:"id"`
	SourceNoteID  string    `json:"source_note_id"`
	TargetNoteID  *string   `json:"target_note_id,omitempty"`
	SourceBlockID *string   `json:"source_block_id,omitempty"`
	TargetBlockID *string   `json:"target_block_id,omitempty"`
	LinkType      LinkType  `json:"link_type"`
	LinkText      *string   `json:"link_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Attachment is a file payload deduplicated by content hash.
type Attachment struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	FileType  FileType  `json:"file_type"`
	MimeType  string    `json:"mime_type"`
	FileSize  int64     `json:"file_size"`
	Width     *int64    `json:"width,omitempty"`
	Height    *int64    `json:"height,omitempty"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FolderMembership is one note_folders row seen from the note's side.
type FolderMembership struct {
	FolderID  string `json:"folder_id"`
	IsPrimary bool   `json:"is_primary"`
	Position  int64  `json:"position"`
}

// BlockReference is a directed block-to-block reference kept apart from
// links, used for transclusion lookups.
type BlockReference struct {
	ID            string    `json:"id"`
	SourceBlockID string    `json:"source_block_id"`
	TargetBlockID string    `json:"target_block_id"`
	CreatedAt     time.Time `json:"created_at"`
}
