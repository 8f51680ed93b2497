package store

import (
	"database/sql"
	"time"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

// AddNoteToFolder files noteID under folderID. When isPrimary is set every
// other membership of the note loses its primary flag in the same
// transaction.
func (db *DB) AddNoteToFolder(noteID, folderID string, isPrimary bool, position int64, at time.Time) error {
	return db.withTx(func(tx *sql.Tx) error {
		if isPrimary {
			if _, err := tx.Exec(`UPDATE note_folders SET is_primary = 0 WHERE note_id = ?`, noteID); err != nil {
				return storageErr("clear primary folder", err)
			}
		}
		_, err := tx.Exec(`INSERT INTO note_folders (note_id, folder_id, is_primary, position, created_at) VALUES (?, ?, ?, ?, ?)`,
			noteID, folderID, boolInt(isPrimary), position, toMillis(at))
		if err != nil {
			return storageErr("add note to folder", err)
		}
		return nil
	})
}

// RemoveNoteFromFolder deletes the membership row if present.
func (db *DB) RemoveNoteFromFolder(noteID, folderID string) error {
	if _, err := db.conn.Exec(`DELETE FROM note_folders WHERE note_id = ? AND folder_id = ?`, noteID, folderID); err != nil {
		return storageErr("remove note from folder", err)
	}
	return nil
}

// SetPrimaryFolder makes folderID the note's only primary folder. Both
// steps run in one transaction; if the note is not filed under folderID the
// transaction is rolled back and NotFound is returned.
func (db *DB) SetPrimaryFolder(noteID, folderID string) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE note_folders SET is_primary = 0 WHERE note_id = ?`, noteID); err != nil {
			return storageErr("clear primary folder", err)
		}
		res, err := tx.Exec(`UPDATE note_folders SET is_primary = 1 WHERE note_id = ? AND folder_id = ?`, noteID, folderID)
		if err != nil {
			return storageErr("set primary folder", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("set primary folder", err)
		}
		if n == 0 {
			return apperr.NotFound("note folder", noteID+"/"+folderID)
		}
		return nil
	})
}

// FoldersForNote lists the note's memberships, primary first then by position.
func (db *DB) FoldersForNote(noteID string) ([]models.FolderMembership, error) {
	rows, err := db.conn.Query(`SELECT folder_id, is_primary, position FROM note_folders
		WHERE note_id = ? ORDER BY is_primary DESC, position, rowid`, noteID)
	if err != nil {
		return nil, storageErr("folders for note", err)
	}
	defer rows.Close()

	var out []models.FolderMembership
	for rows.Next() {
		var (
			m       models.FolderMembership
			primary int
		)
		if err := rows.Scan(&m.FolderID, &primary, &m.Position); err != nil {
			return nil, storageErr("folders for note", err)
		}
		m.IsPrimary = primary != 0
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("folders for note", err)
	}
	return out, nil
}

// NoteIDsInFolder returns the ids filed under folderID by position,
// soft-deleted notes included.
func (db *DB) NoteIDsInFolder(folderID string) ([]string, error) {
	return db.queryIDs("notes in folder",
		`SELECT note_id FROM note_folders WHERE folder_id = ? ORDER BY position, rowid`, folderID)
}

// UpdateNoteFolderPosition rewrites the order key of one membership.
func (db *DB) UpdateNoteFolderPosition(noteID, folderID string, position int64) error {
	_, err := db.conn.Exec(`UPDATE note_folders SET position = ? WHERE note_id = ? AND folder_id = ?`,
		position, noteID, folderID)
	if err != nil {
		return storageErr("update note folder position", err)
	}
	return nil
}

// AddTagToNote attaches tagID to noteID. Adding an existing pair is a Conflict.
func (db *DB) AddTagToNote(noteID, tagID string, at time.Time) error {
	_, err := db.conn.Exec(`INSERT INTO note_tags (note_id, tag_id, created_at) VALUES (?, ?, ?)`,
		noteID, tagID, toMillis(at))
	if err != nil {
		return storageErr("add tag to note", err)
	}
	return nil
}

// RemoveTagFromNote detaches tagID from noteID.
func (db *DB) RemoveTagFromNote(noteID, tagID string) error {
	if _, err := db.conn.Exec(`DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?`, noteID, tagID); err != nil {
		return storageErr("remove tag from note", err)
	}
	return nil
}

// AddAttachmentToNote links attachmentID to noteID at position.
func (db *DB) AddAttachmentToNote(noteID, attachmentID string, position int64, at time.Time) error {
	_, err := db.conn.Exec(`INSERT INTO note_attachments (note_id, attachment_id, position, created_at) VALUES (?, ?, ?, ?)`,
		noteID, attachmentID, position, toMillis(at))
	if err != nil {
		return storageErr("add attachment to note", err)
	}
	return nil
}

// RemoveAttachmentFromNote unlinks attachmentID from noteID.
func (db *DB) RemoveAttachmentFromNote(noteID, attachmentID string) error {
	_, err := db.conn.Exec(`DELETE FROM note_attachments WHERE note_id = ? AND attachment_id = ?`, noteID, attachmentID)
	if err != nil {
		return storageErr("remove attachment from note", err)
	}
	return nil
}

// UpdateNoteAttachmentPosition rewrites the order key of one note attachment.
func (db *DB) UpdateNoteAttachmentPosition(noteID, attachmentID string, position int64) error {
	_, err := db.conn.Exec(`UPDATE note_attachments SET position = ? WHERE note_id = ? AND attachment_id = ?`,
		position, noteID, attachmentID)
	if err != nil {
		return storageErr("update note attachment position", err)
	}
	return nil
}

// AttachmentsForNote returns the note's attachments by position.
func (db *DB) AttachmentsForNote(noteID string) ([]models.Attachment, error) {
	return db.queryAttachments("attachments for note", `SELECT a.id, a.file_name, a.file_path, a.file_type,
			a.mime_type, a.file_size, a.width, a.height, a.hash, a.created_at, a.updated_at
		FROM attachments a INNER JOIN note_attachments na ON a.id = na.attachment_id
		WHERE na.note_id = ?
		ORDER BY na.position, na.rowid`, noteID)
}

// NoteIDsWithAttachment returns the notes referencing attachmentID.
func (db *DB) NoteIDsWithAttachment(attachmentID string) ([]string, error) {
	return db.queryIDs("notes with attachment",
		`SELECT note_id FROM note_attachments WHERE attachment_id = ? ORDER BY rowid`, attachmentID)
}

// AddAttachmentToBlock links attachmentID to blockID.
func (db *DB) AddAttachmentToBlock(blockID, attachmentID string, at time.Time) error {
	_, err := db.conn.Exec(`INSERT INTO block_attachments (block_id, attachment_id, created_at) VALUES (?, ?, ?)`,
		blockID, attachmentID, toMillis(at))
	if err != nil {
		return storageErr("add attachment to block", err)
	}
	return nil
}

// RemoveAttachmentFromBlock unlinks attachmentID from blockID.
func (db *DB) RemoveAttachmentFromBlock(blockID, attachmentID string) error {
	_, err := db.conn.Exec(`DELETE FROM block_attachments WHERE block_id = ? AND attachment_id = ?`, blockID, attachmentID)
	if err != nil {
		return storageErr("remove attachment from block", err)
	}
	return nil
}

// AttachmentsForBlock returns the block's attachments in insertion order.
func (db *DB) AttachmentsForBlock(blockID string) ([]models.Attachment, error) {
	return db.queryAttachments("attachments for block", `SELECT a.id, a.file_name, a.file_path, a.file_type,
			a.mime_type, a.file_size, a.width, a.height, a.hash, a.created_at, a.updated_at
		FROM attachments a INNER JOIN block_attachments ba ON a.id = ba.attachment_id
		WHERE ba.block_id = ?
		ORDER BY ba.created_at, ba.rowid`, blockID)
}

// BlockIDsWithAttachment returns the blocks referencing attachmentID.
func (db *DB) BlockIDsWithAttachment(attachmentID string) ([]string, error) {
	return db.queryIDs("blocks with attachment",
		`SELECT block_id FROM block_attachments WHERE attachment_id = ? ORDER BY rowid`, attachmentID)
}

// CreateBlockReference records that r.SourceBlockID references r.TargetBlockID.
func (db *DB) CreateBlockReference(r *models.BlockReference) error {
	_, err := db.conn.Exec(`INSERT INTO block_references (id, source_block_id, target_block_id, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.SourceBlockID, r.TargetBlockID, toMillis(r.CreatedAt))
	if err != nil {
		return storageErr("insert block reference", err)
	}
	return nil
}

// DeleteBlockReference removes every reference from sourceID to targetID.
func (db *DB) DeleteBlockReference(sourceID, targetID string) error {
	_, err := db.conn.Exec(`DELETE FROM block_references WHERE source_block_id = ? AND target_block_id = ?`, sourceID, targetID)
	if err != nil {
		return storageErr("delete block reference", err)
	}
	return nil
}

// ReferencingBlocks returns the non-deleted blocks that reference blockID.
func (db *DB) ReferencingBlocks(blockID string) ([]models.Block, error) {
	return db.queryBlocks("referencing blocks", `SELECT b.id, b.note_id, b.block_type, b.content, b.position,
			b.created_at, b.updated_at, b.is_deleted, b.deleted_at
		FROM blocks b INNER JOIN block_references r ON b.id = r.source_block_id
		WHERE r.target_block_id = ? AND b.is_deleted = 0
		ORDER BY r.created_at, r.rowid`, blockID)
}

// ReferencedBlocks returns the non-deleted blocks that blockID references.
func (db *DB) ReferencedBlocks(blockID string) ([]models.Block, error) {
	return db.queryBlocks("referenced blocks", `SELECT b.id, b.note_id, b.block_type, b.content, b.position,
			b.created_at, b.updated_at, b.is_deleted, b.deleted_at
		FROM blocks b INNER JOIN block_references r ON b.id = r.target_block_id
		WHERE r.source_block_id = ? AND b.is_deleted = 0
		ORDER BY r.created_at, r.rowid`, blockID)
}

func (db *DB) queryIDs(op, query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}
