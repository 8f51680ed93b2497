package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

// NoteService manages notes: the row in the store and the Markdown body
// under notes/.
type NoteService struct {
	c *Core
}

// NoteUpdate carries the independently optional fields of Update.
type NoteUpdate struct {
	Title   *string
	Content *string
}

func checkTitle(title string) error {
	return checkField("title", title, notBlank, validation.RuneLength(0, maxTitleLen))
}

// Create writes content to notes/<uuid>-<slug>.md and inserts the row.
func (s *NoteService) Create(_ context.Context, title, content string) (*models.Note, error) {
	defer s.c.lock()()
	if err := checkTitle(title); err != nil {
		return nil, err
	}
	id := newID(kindNote)
	now := s.c.now()
	n := &models.Note{
		ID:          id,
		Title:       title,
		ContentPath: noteFileName(id, title),
		CreatedAt:   now,
		UpdatedAt:   now,
		WordCount:   WordCount(content),
	}
	if err := s.c.files.Write(n.ContentPath, []byte(content)); err != nil {
		return nil, err
	}
	if err := s.c.db.CreateNote(n, content); err != nil {
		if rmErr := s.c.files.Delete(n.ContentPath); rmErr != nil {
			s.c.logger.Warn("remove orphaned note file", slog.String("path", n.ContentPath), slog.String("error", rmErr.Error()))
		}
		return nil, err
	}
	s.c.logger.Debug("note created", slog.String("id", n.ID), slog.String("path", n.ContentPath))
	return n, nil
}

// Get returns the note joined with its body. A missing body file reads as
// empty content.
func (s *NoteService) Get(_ context.Context, id string, includeDeleted bool) (*models.NoteWithContent, error) {
	defer s.c.lock()()
	n, err := s.c.db.GetNote(id, includeDeleted)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound(kindNote, id)
	}
	content, err := s.readBody(n)
	if err != nil {
		return nil, err
	}
	return &models.NoteWithContent{Note: *n, Content: content}, nil
}

func (s *NoteService) readBody(n *models.Note) (string, error) {
	data, err := s.c.files.Read(n.ContentPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// mustGet loads a visible note or returns NotFound.
func (s *NoteService) mustGet(id string) (*models.Note, error) {
	n, err := s.c.db.GetNote(id, false)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound(kindNote, id)
	}
	return n, nil
}

// Update applies a title and/or content change. A content change rewrites
// the body file and recounts words; either change refreshes updated_at.
func (s *NoteService) Update(_ context.Context, id string, upd NoteUpdate) (*models.Note, error) {
	defer s.c.lock()()
	if upd.Title != nil {
		if err := checkTitle(*upd.Title); err != nil {
			return nil, err
		}
	}
	n, err := s.mustGet(id)
	if err != nil {
		return nil, err
	}
	if upd.Title == nil && upd.Content == nil {
		return n, nil
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Content != nil {
		if err := s.c.files.Write(n.ContentPath, []byte(*upd.Content)); err != nil {
			return nil, err
		}
		n.WordCount = WordCount(*upd.Content)
	}
	n.UpdatedAt = s.c.touch(n.UpdatedAt)
	if err := s.c.db.UpdateNote(n, upd.Content); err != nil {
		return nil, err
	}
	s.c.logger.Debug("note updated", slog.String("id", n.ID))
	return n, nil
}

// UpdateTitle changes only the title.
func (s *NoteService) UpdateTitle(ctx context.Context, id, title string) (*models.Note, error) {
	return s.Update(ctx, id, NoteUpdate{Title: &title})
}

// UpdateContent rewrites only the body.
func (s *NoteService) UpdateContent(ctx context.Context, id, content string) (*models.Note, error) {
	return s.Update(ctx, id, NoteUpdate{Content: &content})
}

// Delete soft-deletes the note. Its body file and relations are kept.
func (s *NoteService) Delete(_ context.Context, id string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(id); err != nil {
		return err
	}
	if err := s.c.db.SoftDeleteNote(id, s.c.now()); err != nil {
		return err
	}
	s.c.logger.Debug("note deleted", slog.String("id", id))
	return nil
}

// Restore clears the soft-delete flag. Restoring an active note is a no-op.
func (s *NoteService) Restore(_ context.Context, id string) error {
	defer s.c.lock()()
	n, err := s.c.db.GetNote(id, true)
	if err != nil {
		return err
	}
	if n == nil {
		return apperr.NotFound(kindNote, id)
	}
	if !n.IsDeleted {
		return nil
	}
	if err := s.c.db.RestoreNote(id); err != nil {
		return err
	}
	s.c.logger.Debug("note restored", slog.String("id", id))
	return nil
}

// List returns notes, most recently updated first.
func (s *NoteService) List(_ context.Context, includeDeleted bool) ([]models.Note, error) {
	defer s.c.lock()()
	return s.c.db.ListNotes(includeDeleted)
}

// SearchByTitle matches query as a case-insensitive title substring.
func (s *NoteService) SearchByTitle(_ context.Context, query string, includeDeleted bool) ([]models.Note, error) {
	defer s.c.lock()()
	return s.c.db.SearchNotesByTitle(query, includeDeleted)
}

// GetByFolder returns the notes filed in folderID by their folder position.
func (s *NoteService) GetByFolder(_ context.Context, folderID string, includeDeleted bool) ([]models.Note, error) {
	defer s.c.lock()()
	if _, err := s.c.Folders.mustGet(folderID); err != nil {
		return nil, err
	}
	return s.c.db.NotesInFolder(folderID, includeDeleted)
}

// AddToFolder files the note under folderID. With isPrimary set the
// folder becomes the note's only primary folder.
func (s *NoteService) AddToFolder(_ context.Context, noteID, folderID string, isPrimary bool, position int64) error {
	defer s.c.lock()()
	if err := checkField("position", position, nonNegative); err != nil {
		return err
	}
	if _, err := s.mustGet(noteID); err != nil {
		return err
	}
	if _, err := s.c.Folders.mustGet(folderID); err != nil {
		return err
	}
	return s.c.db.AddNoteToFolder(noteID, folderID, isPrimary, position, s.c.now())
}

// RemoveFromFolder unfiles the note from folderID.
func (s *NoteService) RemoveFromFolder(_ context.Context, noteID, folderID string) error {
	defer s.c.lock()()
	return s.c.db.RemoveNoteFromFolder(noteID, folderID)
}

// SetPrimaryFolder atomically moves the primary flag to folderID. The note
// must already be filed there.
func (s *NoteService) SetPrimaryFolder(_ context.Context, noteID, folderID string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(noteID); err != nil {
		return err
	}
	return s.c.db.SetPrimaryFolder(noteID, folderID)
}

// GetFolders lists the note's folder memberships, primary first.
func (s *NoteService) GetFolders(_ context.Context, noteID string) ([]models.FolderMembership, error) {
	defer s.c.lock()()
	return s.c.db.FoldersForNote(noteID)
}

// UpdateFolderPosition reorders the note inside folderID.
func (s *NoteService) UpdateFolderPosition(_ context.Context, noteID, folderID string, position int64) error {
	defer s.c.lock()()
	if err := checkField("position", position, nonNegative); err != nil {
		return err
	}
	return s.c.db.UpdateNoteFolderPosition(noteID, folderID, position)
}

// AddTag attaches tagID to the note.
func (s *NoteService) AddTag(_ context.Context, noteID, tagID string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(noteID); err != nil {
		return err
	}
	if _, err := s.c.Tags.mustGet(tagID); err != nil {
		return err
	}
	return s.c.db.AddTagToNote(noteID, tagID, s.c.now())
}

// RemoveTag detaches tagID from the note.
func (s *NoteService) RemoveTag(_ context.Context, noteID, tagID string) error {
	defer s.c.lock()()
	return s.c.db.RemoveTagFromNote(noteID, tagID)
}

// GetTags returns the note's tags ordered by name.
func (s *NoteService) GetTags(_ context.Context, noteID string) ([]models.Tag, error) {
	defer s.c.lock()()
	return s.c.db.TagsForNote(noteID)
}

// AddAttachment links an attachment to the note at position.
func (s *NoteService) AddAttachment(_ context.Context, noteID, attachmentID string, position int64) error {
	defer s.c.lock()()
	if err := checkField("position", position, nonNegative); err != nil {
		return err
	}
	if _, err := s.mustGet(noteID); err != nil {
		return err
	}
	if _, err := s.c.Attachments.mustGet(attachmentID); err != nil {
		return err
	}
	return s.c.db.AddAttachmentToNote(noteID, attachmentID, position, s.c.now())
}

// RemoveAttachment unlinks an attachment from the note.
func (s *NoteService) RemoveAttachment(_ context.Context, noteID, attachmentID string) error {
	defer s.c.lock()()
	return s.c.db.RemoveAttachmentFromNote(noteID, attachmentID)
}

// GetAttachments returns the note's attachments by position.
func (s *NoteService) GetAttachments(_ context.Context, noteID string) ([]models.Attachment, error) {
	defer s.c.lock()()
	return s.c.db.AttachmentsForNote(noteID)
}

// UpdateAttachmentPosition reorders one attachment of the note.
func (s *NoteService) UpdateAttachmentPosition(_ context.Context, noteID, attachmentID string, position int64) error {
	defer s.c.lock()()
	if err := checkField("position", position, nonNegative); err != nil {
		return err
	}
	return s.c.db.UpdateNoteAttachmentPosition(noteID, attachmentID, position)
}

// Refresh re-reads a note body from disk and brings word_count and the
// full-text index in line with it. updated_at advances only when the
// count or the indexed body changed. It reports whether anything changed.
func (s *NoteService) Refresh(_ context.Context, contentPath string) (bool, error) {
	defer s.c.lock()()
	n, err := s.c.db.GetNoteByContentPath(contentPath)
	if err != nil {
		return false, err
	}
	if n == nil {
		return false, apperr.NotFound("note file", contentPath)
	}
	body, err := s.readBody(n)
	if err != nil {
		return false, err
	}
	indexed, ok, err := s.c.db.IndexedNoteBody(n.ID)
	if err != nil {
		return false, err
	}
	words := WordCount(body)
	if ok && indexed == body && words == n.WordCount {
		return false, nil
	}
	n.WordCount = words
	n.UpdatedAt = s.c.touch(n.UpdatedAt)
	if err := s.c.db.UpdateNote(n, &body); err != nil {
		return false, err
	}
	s.c.logger.Debug("note refreshed from disk", slog.String("id", n.ID), slog.Int64("word_count", words))
	return true, nil
}
