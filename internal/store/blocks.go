package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/synapse/synapse/internal/models"
)

const blockColumns = `id, note_id, block_type, content, position, created_at, updated_at, is_deleted, deleted_at`

// Blocks sharing a position keep insertion order through rowid.
var (
	qBlockByID = variants{
		active: `SELECT ` + blockColumns + ` FROM blocks WHERE id = ? AND is_deleted = 0`,
		all:    `SELECT ` + blockColumns + ` FROM blocks WHERE id = ?`,
	}
	qBlocksByNote = variants{
		active: `SELECT ` + blockColumns + ` FROM blocks WHERE note_id = ? AND is_deleted = 0 ORDER BY position, rowid`,
		all:    `SELECT ` + blockColumns + ` FROM blocks WHERE note_id = ? ORDER BY position, rowid`,
	}
)

func scanBlock(s scanner) (*models.Block, error) {
	var (
		b         models.Block
		blockType string
		created   int64
		updated   int64
		isDeleted int
		deletedAt sql.NullInt64
	)
	if err := s.Scan(&b.ID, &b.NoteID, &blockType, &b.Content, &b.Position, &created, &updated, &isDeleted, &deletedAt); err != nil {
		return nil, err
	}
	bt, err := models.ParseBlockType(blockType)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", b.ID, err)
	}
	b.BlockType = bt
	b.CreatedAt = fromMillis(created)
	b.UpdatedAt = fromMillis(updated)
	b.IsDeleted = isDeleted != 0
	b.DeletedAt = timePtr(deletedAt)
	return &b, nil
}

func (db *DB) queryBlocks(op, query string, args ...any) ([]models.Block, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CreateBlock inserts one block row; the blocks_fts trigger indexes it.
func (db *DB) CreateBlock(b *models.Block) error {
	_, err := db.conn.Exec(`INSERT INTO blocks (`+blockColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.NoteID, string(b.BlockType), b.Content, b.Position,
		toMillis(b.CreatedAt), toMillis(b.UpdatedAt), boolInt(b.IsDeleted), nullMillis(b.DeletedAt))
	if err != nil {
		return storageErr("insert block", err)
	}
	return nil
}

// GetBlock returns the block or nil when absent.
func (db *DB) GetBlock(id string, includeDeleted bool) (*models.Block, error) {
	b, err := scanBlock(db.conn.QueryRow(qBlockByID.pick(includeDeleted), id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get block", err)
	}
	return b, nil
}

// BlocksByNote returns a note's blocks in render order.
func (db *DB) BlocksByNote(noteID string, includeDeleted bool) ([]models.Block, error) {
	return db.queryBlocks("blocks by note", qBlocksByNote.pick(includeDeleted), noteID)
}

// UpdateBlock overwrites the mutable columns of a block row.
func (db *DB) UpdateBlock(b *models.Block) error {
	_, err := db.conn.Exec(`UPDATE blocks
		SET block_type = ?, content = ?, position = ?, updated_at = ?, is_deleted = ?, deleted_at = ?
		WHERE id = ?`,
		string(b.BlockType), b.Content, b.Position, toMillis(b.UpdatedAt),
		boolInt(b.IsDeleted), nullMillis(b.DeletedAt), b.ID)
	if err != nil {
		return storageErr("update block", err)
	}
	return nil
}

// SoftDeleteBlock flags the block deleted.
func (db *DB) SoftDeleteBlock(id string, at time.Time) error {
	if _, err := db.conn.Exec(`UPDATE blocks SET is_deleted = 1, deleted_at = ? WHERE id = ?`, toMillis(at), id); err != nil {
		return storageErr("soft delete block", err)
	}
	return nil
}

// RestoreBlock clears the deleted flag.
func (db *DB) RestoreBlock(id string) error {
	if _, err := db.conn.Exec(`UPDATE blocks SET is_deleted = 0, deleted_at = NULL WHERE id = ?`, id); err != nil {
		return storageErr("restore block", err)
	}
	return nil
}
