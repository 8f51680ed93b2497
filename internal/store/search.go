package store

import "github.com/synapse/synapse/internal/models"

// Queries are handed to MATCH verbatim; a malformed expression surfaces as
// a Storage error from the engine.
var (
	qSearchNotes = variants{
		active: `SELECT n.id, n.title, n.content_path, n.created_at, n.updated_at, n.word_count, n.is_deleted, n.deleted_at
			FROM notes_fts JOIN notes n ON n.id = notes_fts.note_id
			WHERE notes_fts MATCH ? AND n.is_deleted = 0
			ORDER BY n.updated_at DESC, n.rowid DESC
			LIMIT ?`,
		all: `SELECT n.id, n.title, n.content_path, n.created_at, n.updated_at, n.word_count, n.is_deleted, n.deleted_at
			FROM notes_fts JOIN notes n ON n.id = notes_fts.note_id
			WHERE notes_fts MATCH ?
			ORDER BY n.updated_at DESC, n.rowid DESC
			LIMIT ?`,
	}
	qSearchBlocks = variants{
		active: `SELECT b.id, b.note_id, b.block_type, b.content, b.position, b.created_at, b.updated_at, b.is_deleted, b.deleted_at
			FROM blocks_fts JOIN blocks b ON b.id = blocks_fts.block_id
			WHERE blocks_fts MATCH ? AND b.is_deleted = 0
			ORDER BY b.position, b.rowid
			LIMIT ?`,
		all: `SELECT b.id, b.note_id, b.block_type, b.content, b.position, b.created_at, b.updated_at, b.is_deleted, b.deleted_at
			FROM blocks_fts JOIN blocks b ON b.id = blocks_fts.block_id
			WHERE blocks_fts MATCH ?
			ORDER BY b.position, b.rowid
			LIMIT ?`,
	}
)

// sqlLimit maps 0 (unlimited) to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// SearchNotes runs a full-text query over note titles and bodies, most
// recently updated first. limit <= 0 means no limit.
func (db *DB) SearchNotes(query string, includeDeleted bool, limit int) ([]models.Note, error) {
	return db.queryNotes("search notes", qSearchNotes.pick(includeDeleted), query, sqlLimit(limit))
}

// SearchBlocks runs a full-text query over block content, ordered by position.
func (db *DB) SearchBlocks(query string, includeDeleted bool, limit int) ([]models.Block, error) {
	return db.queryBlocks("search blocks", qSearchBlocks.pick(includeDeleted), query, sqlLimit(limit))
}
