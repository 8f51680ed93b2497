package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

// TagService manages tags. Names are unique and case-sensitive.
type TagService struct {
	c *Core
}

// TagUpdate carries the optional fields of Update.
type TagUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

func checkTagName(name string) error {
	return checkField("name", name, notBlank, validation.RuneLength(0, maxNameLen))
}

func (s *TagService) mustGet(id string) (*models.Tag, error) {
	t, err := s.c.db.GetTag(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound(kindTag, id)
	}
	return t, nil
}

// Create adds a tag. An existing tag with the exact same name is a Conflict.
func (s *TagService) Create(_ context.Context, name string) (*models.Tag, error) {
	defer s.c.lock()()
	if err := checkTagName(name); err != nil {
		return nil, err
	}
	existing, err := s.c.db.GetTagByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("tag %q already exists", name)
	}
	t := &models.Tag{ID: newID(kindTag), Name: name, CreatedAt: s.c.now()}
	if err := s.c.db.CreateTag(t); err != nil {
		return nil, err
	}
	s.c.logger.Debug("tag created", slog.String("id", t.ID), slog.String("name", name))
	return t, nil
}

// Get returns a tag by id.
func (s *TagService) Get(_ context.Context, id string) (*models.Tag, error) {
	defer s.c.lock()()
	return s.mustGet(id)
}

// GetByName returns the tag with exactly that name.
func (s *TagService) GetByName(_ context.Context, name string) (*models.Tag, error) {
	defer s.c.lock()()
	t, err := s.c.db.GetTagByName(name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound(kindTag, name)
	}
	return t, nil
}

// List returns all tags ordered by name.
func (s *TagService) List(_ context.Context) ([]models.Tag, error) {
	defer s.c.lock()()
	return s.c.db.ListTags()
}

// Update renames or restyles a tag. Renaming onto another tag's name is a
// Conflict.
func (s *TagService) Update(_ context.Context, id string, upd TagUpdate) (*models.Tag, error) {
	defer s.c.lock()()
	if upd.Name != nil {
		if err := checkTagName(*upd.Name); err != nil {
			return nil, err
		}
	}
	t, err := s.mustGet(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil && *upd.Name != t.Name {
		other, err := s.c.db.GetTagByName(*upd.Name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperr.Conflict("tag %q already exists", *upd.Name)
		}
		t.Name = *upd.Name
	}
	if upd.Color != nil {
		t.Color = emptyToNil(*upd.Color)
	}
	if upd.Icon != nil {
		t.Icon = emptyToNil(*upd.Icon)
	}
	if err := s.c.db.UpdateTag(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the tag and its note associations.
func (s *TagService) Delete(_ context.Context, id string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(id); err != nil {
		return err
	}
	if err := s.c.db.DeleteTag(id); err != nil {
		return err
	}
	s.c.logger.Debug("tag deleted", slog.String("id", id))
	return nil
}

// GetNotes returns the non-deleted notes carrying the tag.
func (s *TagService) GetNotes(_ context.Context, id string) ([]models.Note, error) {
	defer s.c.lock()()
	if _, err := s.mustGet(id); err != nil {
		return nil, err
	}
	return s.c.db.NotesWithTag(id, false)
}

// emptyToNil clears an optional column when given "".
func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
