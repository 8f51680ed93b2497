package service

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/checksum"
	"github.com/synapse/synapse/internal/models"
	"github.com/synapse/synapse/internal/storage"
)

// AttachmentService stores file payloads under attachments/, one copy per
// distinct content hash.
type AttachmentService struct {
	c *Core
}

// AttachmentUpdate carries the optional fields of Update.
type AttachmentUpdate struct {
	FileName *string
}

func checkFileName(name string) error {
	return checkField("file_name", name, notBlank, validation.RuneLength(0, maxNameLen))
}

func (s *AttachmentService) mustGet(id string) (*models.Attachment, error) {
	a, err := s.c.db.GetAttachment(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound(kindAttachment, id)
	}
	return a, nil
}

// Import stores data as an attachment. When a payload with the same hash
// already exists its row is returned unchanged and reused is true.
func (s *AttachmentService) Import(_ context.Context, fileName string, data []byte) (a *models.Attachment, reused bool, err error) {
	defer s.c.lock()()
	if err := checkFileName(fileName); err != nil {
		return nil, false, err
	}
	hash := checksum.Sum(data)
	existing, err := s.c.db.GetAttachmentByHash(hash)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		s.c.logger.Debug("attachment reused", slog.String("id", existing.ID), slog.String("hash", hash))
		return existing, true, nil
	}

	mt := mimetype.Detect(data)
	ft := models.FileTypeForMime(mt.String())
	now := s.c.now()
	a = &models.Attachment{
		ID:        newID(kindAttachment),
		FileName:  filepath.Base(fileName),
		FilePath:  payloadPath(hash, payloadExt(fileName, mt)),
		FileType:  ft,
		MimeType:  mt.String(),
		FileSize:  int64(len(data)),
		Hash:      hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ft == models.FileImage {
		a.Width, a.Height = imageSize(data)
	}

	if err := s.c.files.Write(a.FilePath, data); err != nil {
		return nil, false, err
	}
	if err := s.c.db.CreateAttachment(a); err != nil {
		if rmErr := s.c.files.Delete(a.FilePath); rmErr != nil {
			s.c.logger.Warn("remove orphaned attachment", slog.String("path", a.FilePath), slog.String("error", rmErr.Error()))
		}
		return nil, false, err
	}
	s.c.logger.Debug("attachment stored", slog.String("id", a.ID), slog.String("mime", a.MimeType), slog.Int64("size", a.FileSize))
	return a, false, nil
}

// ImportFile reads a file from the local disk and imports it.
func (s *AttachmentService) ImportFile(ctx context.Context, path string) (*models.Attachment, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, apperr.IO("read "+path, err)
	}
	return s.Import(ctx, filepath.Base(path), data)
}

// payloadPath shards payloads by the first two hash characters.
func payloadPath(hash, ext string) string {
	return storage.AttachmentsDir + "/" + hash[:2] + "/" + hash + ext
}

// payloadExt keeps the caller's extension when it looks sane and falls
// back to the one implied by the detected type.
func payloadExt(fileName string, mt *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) < 2 || len(ext) > 10 {
		return mt.Extension()
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return mt.Extension()
		}
	}
	return ext
}

func imageSize(data []byte) (*int64, *int64) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	w, h := int64(cfg.Width), int64(cfg.Height)
	return &w, &h
}

// Get returns an attachment by id.
func (s *AttachmentService) Get(_ context.Context, id string) (*models.Attachment, error) {
	defer s.c.lock()()
	return s.mustGet(id)
}

// GetByHash returns the attachment holding that content hash.
func (s *AttachmentService) GetByHash(_ context.Context, hash string) (*models.Attachment, error) {
	defer s.c.lock()()
	a, err := s.c.db.GetAttachmentByHash(hash)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound(kindAttachment, hash)
	}
	return a, nil
}

// List returns all attachments, newest first.
func (s *AttachmentService) List(_ context.Context) ([]models.Attachment, error) {
	defer s.c.lock()()
	return s.c.db.ListAttachments()
}

// Update renames an attachment. The payload and hash are unaffected.
func (s *AttachmentService) Update(_ context.Context, id string, upd AttachmentUpdate) (*models.Attachment, error) {
	defer s.c.lock()()
	if upd.FileName != nil {
		if err := checkFileName(*upd.FileName); err != nil {
			return nil, err
		}
	}
	a, err := s.mustGet(id)
	if err != nil {
		return nil, err
	}
	if upd.FileName == nil {
		return a, nil
	}
	a.FileName = *upd.FileName
	a.UpdatedAt = s.c.touch(a.UpdatedAt)
	if err := s.c.db.UpdateAttachment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the row, its note and block associations and the payload.
func (s *AttachmentService) Delete(_ context.Context, id string) error {
	defer s.c.lock()()
	a, err := s.mustGet(id)
	if err != nil {
		return err
	}
	if err := s.c.db.DeleteAttachment(id); err != nil {
		return err
	}
	if err := s.c.files.Delete(a.FilePath); err != nil {
		return err
	}
	s.c.logger.Debug("attachment deleted", slog.String("id", id))
	return nil
}

// Read returns the attachment row and its payload bytes.
func (s *AttachmentService) Read(_ context.Context, id string) (*models.Attachment, []byte, error) {
	defer s.c.lock()()
	a, err := s.mustGet(id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.c.files.Read(a.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return a, data, nil
}
