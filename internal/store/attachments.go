package store

import (
	"database/sql"
	"fmt"

	"github.com/synapse/synapse/internal/models"
)

const attachmentColumns = `id, file_name, file_path, file_type, mime_type, file_size, width, height, hash, created_at, updated_at`

func scanAttachment(s scanner) (*models.Attachment, error) {
	var (
		a        models.Attachment
		fileType string
		width    sql.NullInt64
		height   sql.NullInt64
		created  int64
		updated  int64
	)
	if err := s.Scan(&a.ID, &a.FileName, &a.FilePath, &fileType, &a.MimeType, &a.FileSize,
		&width, &height, &a.Hash, &created, &updated); err != nil {
		return nil, err
	}
	ft, err := models.ParseFileType(fileType)
	if err != nil {
		return nil, fmt.Errorf("attachment %s: %w", a.ID, err)
	}
	a.FileType = ft
	a.Width = intPtr(width)
	a.Height = intPtr(height)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return &a, nil
}

func (db *DB) queryAttachments(op, query string, args ...any) ([]models.Attachment, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CreateAttachment inserts a row. A second row with the same hash is a Conflict.
func (db *DB) CreateAttachment(a *models.Attachment) error {
	_, err := db.conn.Exec(`INSERT INTO attachments (`+attachmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.FileName, a.FilePath, string(a.FileType), a.MimeType, a.FileSize,
		nullInt(a.Width), nullInt(a.Height), a.Hash, toMillis(a.CreatedAt), toMillis(a.UpdatedAt))
	if err != nil {
		return storageErr("insert attachment", err)
	}
	return nil
}

// GetAttachment returns the attachment or nil when absent.
func (db *DB) GetAttachment(id string) (*models.Attachment, error) {
	a, err := scanAttachment(db.conn.QueryRow(`SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get attachment", err)
	}
	return a, nil
}

// GetAttachmentByHash returns the attachment holding that content hash, or nil.
func (db *DB) GetAttachmentByHash(hash string) (*models.Attachment, error) {
	a, err := scanAttachment(db.conn.QueryRow(`SELECT `+attachmentColumns+` FROM attachments WHERE hash = ?`, hash))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get attachment by hash", err)
	}
	return a, nil
}

// ListAttachments returns every attachment, newest first.
func (db *DB) ListAttachments() ([]models.Attachment, error) {
	return db.queryAttachments("list attachments",
		`SELECT `+attachmentColumns+` FROM attachments ORDER BY created_at DESC, rowid DESC`)
}

// UpdateAttachment overwrites the mutable columns. Hash and path are fixed
// by the content and are not rewritten.
func (db *DB) UpdateAttachment(a *models.Attachment) error {
	_, err := db.conn.Exec(`UPDATE attachments
		SET file_name = ?, file_type = ?, mime_type = ?, width = ?, height = ?, updated_at = ?
		WHERE id = ?`,
		a.FileName, string(a.FileType), a.MimeType, nullInt(a.Width), nullInt(a.Height), toMillis(a.UpdatedAt), a.ID)
	if err != nil {
		return storageErr("update attachment", err)
	}
	return nil
}

// DeleteAttachment removes the row; junction rows cascade.
func (db *DB) DeleteAttachment(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM attachments WHERE id = ?`, id); err != nil {
		return storageErr("delete attachment", err)
	}
	return nil
}
