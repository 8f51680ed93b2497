package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

// BlockService manages the ordered blocks of a note, their cross-block
// references and their attachments.
type BlockService struct {
	c *Core
}

// BlockInput describes a new block.
type BlockInput struct {
	NoteID    string
	BlockType models.BlockType
	Content   string
	Position  int64
}

// BlockUpdate carries the optional fields of Update.
type BlockUpdate struct {
	BlockType *models.BlockType
	Content   *string
	Position  *int64
}

func (s *BlockService) mustGet(id string) (*models.Block, error) {
	b, err := s.c.db.GetBlock(id, false)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(kindBlock, id)
	}
	return b, nil
}

// Create appends a block to an existing, non-deleted note.
func (s *BlockService) Create(_ context.Context, in BlockInput) (*models.Block, error) {
	defer s.c.lock()()
	err := validation.ValidateStruct(&in,
		validation.Field(&in.NoteID, validation.Required),
		validation.Field(&in.BlockType, validation.Required, validBlockType),
		validation.Field(&in.Position, nonNegative),
	)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := s.c.Notes.mustGet(in.NoteID); err != nil {
		return nil, err
	}
	now := s.c.now()
	b := &models.Block{
		ID:        newID(kindBlock),
		NoteID:    in.NoteID,
		BlockType: in.BlockType,
		Content:   in.Content,
		Position:  in.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.c.db.CreateBlock(b); err != nil {
		return nil, err
	}
	s.c.logger.Debug("block created", slog.String("id", b.ID), slog.String("note_id", b.NoteID))
	return b, nil
}

// Get returns a block by id.
func (s *BlockService) Get(_ context.Context, id string, includeDeleted bool) (*models.Block, error) {
	defer s.c.lock()()
	b, err := s.c.db.GetBlock(id, includeDeleted)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound(kindBlock, id)
	}
	return b, nil
}

// GetByNote returns a note's blocks by position, ties in insertion order.
func (s *BlockService) GetByNote(_ context.Context, noteID string, includeDeleted bool) ([]models.Block, error) {
	defer s.c.lock()()
	return s.c.db.BlocksByNote(noteID, includeDeleted)
}

// Update rewrites the given fields of a block.
func (s *BlockService) Update(_ context.Context, id string, upd BlockUpdate) (*models.Block, error) {
	defer s.c.lock()()
	if upd.BlockType != nil {
		if err := checkField("block_type", *upd.BlockType, validBlockType); err != nil {
			return nil, err
		}
	}
	if upd.Position != nil {
		if err := checkField("position", *upd.Position, nonNegative); err != nil {
			return nil, err
		}
	}
	b, err := s.mustGet(id)
	if err != nil {
		return nil, err
	}
	if upd.BlockType != nil {
		b.BlockType = *upd.BlockType
	}
	if upd.Content != nil {
		b.Content = *upd.Content
	}
	if upd.Position != nil {
		b.Position = *upd.Position
	}
	b.UpdatedAt = s.c.touch(b.UpdatedAt)
	if err := s.c.db.UpdateBlock(b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateContent replaces the block's Markdown fragment.
func (s *BlockService) UpdateContent(ctx context.Context, id, content string) (*models.Block, error) {
	return s.Update(ctx, id, BlockUpdate{Content: &content})
}

// UpdatePosition moves the block within its note.
func (s *BlockService) UpdatePosition(ctx context.Context, id string, position int64) (*models.Block, error) {
	return s.Update(ctx, id, BlockUpdate{Position: &position})
}

// Delete soft-deletes the block.
func (s *BlockService) Delete(_ context.Context, id string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(id); err != nil {
		return err
	}
	return s.c.db.SoftDeleteBlock(id, s.c.now())
}

// Restore clears the block's soft-delete flag.
func (s *BlockService) Restore(_ context.Context, id string) error {
	defer s.c.lock()()
	b, err := s.c.db.GetBlock(id, true)
	if err != nil {
		return err
	}
	if b == nil {
		return apperr.NotFound(kindBlock, id)
	}
	if !b.IsDeleted {
		return nil
	}
	return s.c.db.RestoreBlock(id)
}

// CreateReference records that sourceID references targetID. Both blocks
// must exist and not be deleted.
func (s *BlockService) CreateReference(_ context.Context, sourceID, targetID string) (*models.BlockReference, error) {
	defer s.c.lock()()
	if err := s.requireBoth(sourceID, targetID); err != nil {
		return nil, err
	}
	r := &models.BlockReference{
		ID:            newID(kindReference),
		SourceBlockID: sourceID,
		TargetBlockID: targetID,
		CreatedAt:     s.c.now(),
	}
	if err := s.c.db.CreateBlockReference(r); err != nil {
		return nil, err
	}
	return r, nil
}

// requireBoth checks both endpoints of a block-to-block edge, naming the
// missing side.
func (s *BlockService) requireBoth(sourceID, targetID string) error {
	for _, end := range []struct{ side, id string }{{"source block", sourceID}, {"target block", targetID}} {
		b, err := s.c.db.GetBlock(end.id, false)
		if err != nil {
			return err
		}
		if b == nil {
			return apperr.NotFound(end.side, end.id)
		}
	}
	return nil
}

// DeleteReference removes references from sourceID to targetID.
func (s *BlockService) DeleteReference(_ context.Context, sourceID, targetID string) error {
	defer s.c.lock()()
	return s.c.db.DeleteBlockReference(sourceID, targetID)
}

// GetReferencingBlocks returns the blocks that reference id.
func (s *BlockService) GetReferencingBlocks(_ context.Context, id string) ([]models.Block, error) {
	defer s.c.lock()()
	return s.c.db.ReferencingBlocks(id)
}

// GetReferencedBlocks returns the blocks id references.
func (s *BlockService) GetReferencedBlocks(_ context.Context, id string) ([]models.Block, error) {
	defer s.c.lock()()
	return s.c.db.ReferencedBlocks(id)
}

// AddAttachment links an attachment to the block.
func (s *BlockService) AddAttachment(_ context.Context, blockID, attachmentID string) error {
	defer s.c.lock()()
	if _, err := s.mustGet(blockID); err != nil {
		return err
	}
	if _, err := s.c.Attachments.mustGet(attachmentID); err != nil {
		return err
	}
	return s.c.db.AddAttachmentToBlock(blockID, attachmentID, s.c.now())
}

// RemoveAttachment unlinks an attachment from the block.
func (s *BlockService) RemoveAttachment(_ context.Context, blockID, attachmentID string) error {
	defer s.c.lock()()
	return s.c.db.RemoveAttachmentFromBlock(blockID, attachmentID)
}

// GetAttachments returns the block's attachments.
func (s *BlockService) GetAttachments(_ context.Context, blockID string) ([]models.Attachment, error) {
	defer s.c.lock()()
	return s.c.db.AttachmentsForBlock(blockID)
}
