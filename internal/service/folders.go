package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

// FolderService manages the folder tree. A folder's path is computed once
// at creation from its parent and is not re-derived afterwards.
type FolderService struct {
	c *Core
}

// FolderUpdate carries the optional fields of Update. ParentID set to a
// pointer to "" moves the folder to the root.
type FolderUpdate struct {
	Name     *string
	ParentID *string
	Position *int64
}

func checkFolderName(name string) error {
	return checkField("name", name, notBlank, noSlash, validation.RuneLength(0, maxNameLen))
}

func (s *FolderService) mustGet(id string) (*models.Folder, error) {
	f, err := s.c.db.GetFolder(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound(kindFolder, id)
	}
	return f, nil
}

// Create adds a folder under parentID (nil for a root). Its path is
// parent.path + "/" + name, or "/" + name for roots.
func (s *FolderService) Create(_ context.Context, name string, parentID *string) (*models.Folder, error) {
	defer s.c.lock()()
	if err := checkFolderName(name); err != nil {
		return nil, err
	}
	path := "/" + name
	if parentID != nil {
		parent, err := s.c.db.GetFolder(*parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("parent folder", *parentID)
		}
		path = parent.Path + "/" + name
	}
	now := s.c.now()
	f := &models.Folder{
		ID:        newID(kindFolder),
		Name:      name,
		ParentID:  parentID,
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.c.db.CreateFolder(f); err != nil {
		return nil, err
	}
	s.c.logger.Debug("folder created", slog.String("id", f.ID), slog.String("path", f.Path))
	return f, nil
}

// Get returns a folder by id.
func (s *FolderService) Get(_ context.Context, id string) (*models.Folder, error) {
	defer s.c.lock()()
	return s.mustGet(id)
}

// GetRoots returns the top-level folders by position.
func (s *FolderService) GetRoots(_ context.Context) ([]models.Folder, error) {
	defer s.c.lock()()
	return s.c.db.RootFolders()
}

// GetChildren returns the direct children of parentID by position.
func (s *FolderService) GetChildren(_ context.Context, parentID string) ([]models.Folder, error) {
	defer s.c.lock()()
	if _, err := s.mustGet(parentID); err != nil {
		return nil, err
	}
	return s.c.db.ChildFolders(parentID)
}

// List returns every folder ordered by path.
func (s *FolderService) List(_ context.Context) ([]models.Folder, error) {
	defer s.c.lock()()
	return s.c.db.ListFolders()
}

// Update renames, moves or reorders a folder. The stored path is left as
// it is; keeping it in step after a rename or move is up to the caller.
func (s *FolderService) Update(_ context.Context, id string, upd FolderUpdate) (*models.Folder, error) {
	defer s.c.lock()()
	if upd.Name != nil {
		if err := checkFolderName(*upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Position != nil {
		if err := checkField("position", *upd.Position, nonNegative); err != nil {
			return nil, err
		}
	}
	f, err := s.mustGet(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		f.Name = *upd.Name
	}
	if upd.Position != nil {
		f.Position = *upd.Position
	}
	if upd.ParentID != nil {
		if *upd.ParentID == "" {
			f.ParentID = nil
		} else {
			if err := s.checkMove(id, *upd.ParentID); err != nil {
				return nil, err
			}
			parent := *upd.ParentID
			f.ParentID = &parent
		}
	}
	f.UpdatedAt = s.c.touch(f.UpdatedAt)
	if err := s.c.db.UpdateFolder(f); err != nil {
		return nil, err
	}
	return f, nil
}

// checkMove rejects a new parent that is missing, the folder itself or one
// of its descendants.
func (s *FolderService) checkMove(id, parentID string) error {
	cur := parentID
	for {
		if cur == id {
			return apperr.Invalid("folder %s cannot be moved under itself", id)
		}
		f, err := s.c.db.GetFolder(cur)
		if err != nil {
			return err
		}
		if f == nil {
			return apperr.NotFound("parent folder", cur)
		}
		if f.ParentID == nil {
			return nil
		}
		cur = *f.ParentID
	}
}

// Delete hard-deletes a folder with no child folders. Note memberships
// cascade; the notes themselves are untouched.
func (s *FolderService) Delete(_ context.Context, id string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(id); err != nil {
		return err
	}
	children, err := s.c.db.ChildFolders(id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return apperr.Invalid("cannot delete folder %s: it has %d child folders", id, len(children))
	}
	if err := s.c.db.DeleteFolder(id); err != nil {
		return err
	}
	s.c.logger.Debug("folder deleted", slog.String("id", id))
	return nil
}

// GetNotes returns the notes filed in the folder.
func (s *FolderService) GetNotes(ctx context.Context, id string, includeDeleted bool) ([]models.Note, error) {
	return s.c.Notes.GetByFolder(ctx, id, includeDeleted)
}
