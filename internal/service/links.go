package service

import (
	"context"
	"log/slog"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

// LinkService manages directed links between notes and blocks. Both
// endpoints must exist and not be soft-deleted when a link is created.
type LinkService struct {
	c *Core
}

// CreateNoteLink links sourceNoteID to targetNoteID. linkText may be empty.
func (s *LinkService) CreateNoteLink(_ context.Context, sourceNoteID, targetNoteID, linkText string) (*models.Link, error) {
	defer s.c.lock()()
	if err := s.requireNote("source note", sourceNoteID); err != nil {
		return nil, err
	}
	if err := s.requireNote("target note", targetNoteID); err != nil {
		return nil, err
	}
	target := targetNoteID
	l := &models.Link{
		ID:           newID(kindLink),
		SourceNoteID: sourceNoteID,
		TargetNoteID: &target,
		LinkType:     models.LinkNote,
		LinkText:     emptyToNil(linkText),
		CreatedAt:    s.c.now(),
	}
	return s.insert(l)
}

// CreateBlockReference records a block_reference link from sourceBlockID,
// which lives in sourceNoteID, to targetBlockID.
func (s *LinkService) CreateBlockReference(_ context.Context, sourceBlockID, targetBlockID, sourceNoteID string) (*models.Link, error) {
	defer s.c.lock()()
	if err := s.c.Blocks.requireBoth(sourceBlockID, targetBlockID); err != nil {
		return nil, err
	}
	if err := s.requireNote("source note", sourceNoteID); err != nil {
		return nil, err
	}
	src, dst := sourceBlockID, targetBlockID
	l := &models.Link{
		ID:            newID(kindLink),
		SourceNoteID:  sourceNoteID,
		SourceBlockID: &src,
		TargetBlockID: &dst,
		LinkType:      models.LinkBlockReference,
		CreatedAt:     s.c.now(),
	}
	return s.insert(l)
}

func (s *LinkService) insert(l *models.Link) (*models.Link, error) {
	if err := s.c.db.CreateLink(l); err != nil {
		return nil, err
	}
	s.c.logger.Debug("link created", slog.String("id", l.ID), slog.String("type", string(l.LinkType)))
	return l, nil
}

func (s *LinkService) requireNote(side, id string) error {
	n, err := s.c.db.GetNote(id, false)
	if err != nil {
		return err
	}
	if n == nil {
		return apperr.NotFound(side, id)
	}
	return nil
}

// Get returns a link by id.
func (s *LinkService) Get(_ context.Context, id string) (*models.Link, error) {
	defer s.c.lock()()
	l, err := s.c.db.GetLink(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound(kindLink, id)
	}
	return l, nil
}

// GetOutgoing returns the links whose source is noteID.
func (s *LinkService) GetOutgoing(_ context.Context, noteID string) ([]models.Link, error) {
	defer s.c.lock()()
	return s.c.db.OutgoingLinks(noteID)
}

// GetIncoming returns the links that target noteID.
func (s *LinkService) GetIncoming(_ context.Context, noteID string) ([]models.Link, error) {
	defer s.c.lock()()
	return s.c.db.IncomingLinks(noteID)
}

// GetFromBlock returns the links whose source block is blockID.
func (s *LinkService) GetFromBlock(_ context.Context, blockID string) ([]models.Link, error) {
	defer s.c.lock()()
	return s.c.db.LinksFromBlock(blockID)
}

// GetToBlock returns the links that target blockID.
func (s *LinkService) GetToBlock(_ context.Context, blockID string) ([]models.Link, error) {
	defer s.c.lock()()
	return s.c.db.LinksToBlock(blockID)
}

// Delete removes a link.
func (s *LinkService) Delete(_ context.Context, id string) error {
	defer s.c.lock()()
	l, err := s.c.db.GetLink(id)
	if err != nil {
		return err
	}
	if l == nil {
		return apperr.NotFound(kindLink, id)
	}
	return s.c.db.DeleteLink(id)
}
