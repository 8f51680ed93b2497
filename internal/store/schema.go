package store

import (
	"database/sql"
	"fmt"

	"github.com/synapse/synapse/internal/apperr"
)

// SchemaVersion is written to schema_version after a successful Initialize.
const SchemaVersion = 1

var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		content_path TEXT NOT NULL,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL,
		word_count   INTEGER DEFAULT 0,
		is_deleted   INTEGER DEFAULT 0,
		deleted_at   INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS blocks (
		id         TEXT PRIMARY KEY,
		note_id    TEXT NOT NULL,
		block_type TEXT NOT NULL,
		content    TEXT NOT NULL,
		position   INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		is_deleted INTEGER DEFAULT 0,
		deleted_at INTEGER,
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS folders (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		parent_id  TEXT,
		path       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		position   INTEGER DEFAULT 0,
		FOREIGN KEY (parent_id) REFERENCES folders(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS note_folders (
		note_id    TEXT NOT NULL,
		folder_id  TEXT NOT NULL,
		is_primary INTEGER DEFAULT 0,
		position   INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (note_id, folder_id),
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE,
		FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		color      TEXT,
		icon       TEXT,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS note_tags (
		note_id    TEXT NOT NULL,
		tag_id     TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (note_id, tag_id),
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS links (
		id              TEXT PRIMARY KEY,
		source_note_id  TEXT NOT NULL,
		target_note_id  TEXT,
		source_block_id TEXT,
		target_block_id TEXT,
		link_type       TEXT NOT NULL,
		link_text       TEXT,
		created_at      INTEGER NOT NULL,
		FOREIGN KEY (source_note_id) REFERENCES notes(id) ON DELETE CASCADE,
		FOREIGN KEY (target_note_id) REFERENCES notes(id) ON DELETE CASCADE,
		FOREIGN KEY (source_block_id) REFERENCES blocks(id) ON DELETE CASCADE,
		FOREIGN KEY (target_block_id) REFERENCES blocks(id) ON DELETE CASCADE,
		CHECK (
			(link_type = 'note_link' AND target_note_id IS NOT NULL) OR
			(link_type = 'block_reference' AND target_block_id IS NOT NULL) OR
			(link_type = 'database_relation' AND target_note_id IS NOT NULL)
		)
	)`,
	`CREATE TABLE IF NOT EXISTS block_references (
		id              TEXT PRIMARY KEY,
		source_block_id TEXT NOT NULL,
		target_block_id TEXT NOT NULL,
		created_at      INTEGER NOT NULL,
		FOREIGN KEY (source_block_id) REFERENCES blocks(id) ON DELETE CASCADE,
		FOREIGN KEY (target_block_id) REFERENCES blocks(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS attachments (
		id         TEXT PRIMARY KEY,
		file_name  TEXT NOT NULL,
		file_path  TEXT NOT NULL,
		file_type  TEXT NOT NULL,
		mime_type  TEXT NOT NULL,
		file_size  INTEGER NOT NULL,
		width      INTEGER,
		height     INTEGER,
		hash       TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS note_attachments (
		note_id       TEXT NOT NULL,
		attachment_id TEXT NOT NULL,
		position      INTEGER DEFAULT 0,
		created_at    INTEGER NOT NULL,
		PRIMARY KEY (note_id, attachment_id),
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE,
		FOREIGN KEY (attachment_id) REFERENCES attachments(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS block_attachments (
		block_id      TEXT NOT NULL,
		attachment_id TEXT NOT NULL,
		created_at    INTEGER NOT NULL,
		PRIMARY KEY (block_id, attachment_id),
		FOREIGN KEY (block_id) REFERENCES blocks(id) ON DELETE CASCADE,
		FOREIGN KEY (attachment_id) REFERENCES attachments(id) ON DELETE CASCADE
	)`,
}

var indexDDL = []string{
	`CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_content_path ON notes(content_path)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_deleted_at ON notes(deleted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_is_deleted ON notes(is_deleted)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_note_id ON blocks(note_id)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_position ON blocks(note_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_deleted_at ON blocks(deleted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_is_deleted ON blocks(is_deleted)`,
	`CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_folders_path ON folders(path)`,
	`CREATE INDEX IF NOT EXISTS idx_folders_position ON folders(parent_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_note_folders_note_id ON note_folders(note_id)`,
	`CREATE INDEX IF NOT EXISTS idx_note_folders_folder_id ON note_folders(folder_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_note_folders_primary ON note_folders(note_id, is_primary)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name)`,
	`CREATE INDEX IF NOT EXISTS idx_note_tags_note_id ON note_tags(note_id)`,
	`CREATE INDEX IF NOT EXISTS idx_note_tags_tag_id ON note_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_source_note ON links(source_note_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_target_note ON links(target_note_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_source_block ON links(source_block_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_target_block ON links(target_block_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_type ON links(link_type)`,
	`CREATE INDEX IF NOT EXISTS idx_block_refs_source ON block_references(source_block_id)`,
	`CREATE INDEX IF NOT EXISTS idx_block_refs_target ON block_references(target_block_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_type ON attachments(file_type)`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_hash ON attachments(hash)`,
	`CREATE INDEX IF NOT EXISTS idx_note_attachments_note_id ON note_attachments(note_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_note_attachments_attachment_id ON note_attachments(attachment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_block_attachments_block_id ON block_attachments(block_id)`,
	`CREATE INDEX IF NOT EXISTS idx_block_attachments_attachment_id ON block_attachments(attachment_id)`,
}

// Block content lives in the row, so triggers keep blocks_fts in step.
// Note bodies live on disk and are indexed explicitly by the note writes.
var triggerDDL = []string{
	`CREATE TRIGGER IF NOT EXISTS blocks_fts_ai AFTER INSERT ON blocks BEGIN
		INSERT INTO blocks_fts (block_id, body) VALUES (NEW.id, NEW.content);
	END`,
	`CREATE TRIGGER IF NOT EXISTS blocks_fts_ad AFTER DELETE ON blocks BEGIN
		DELETE FROM blocks_fts WHERE block_id = OLD.id;
	END`,
	`CREATE TRIGGER IF NOT EXISTS blocks_fts_au AFTER UPDATE OF content ON blocks BEGIN
		DELETE FROM blocks_fts WHERE block_id = OLD.id;
		INSERT INTO blocks_fts (block_id, body) VALUES (NEW.id, NEW.content);
	END`,
	`CREATE TRIGGER IF NOT EXISTS notes_fts_ad AFTER DELETE ON notes BEGIN
		DELETE FROM notes_fts WHERE note_id = OLD.id;
	END`,
}

// Initialize brings conn to the current schema. Every statement is
// IF NOT EXISTS, so calling it on an initialized store is a no-op apart from
// rewriting the version marker.
func Initialize(conn *sql.DB) error {
	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return apperr.Storage("enable foreign keys", err)
	}

	steps := [][]string{tableDDL, ftsDDL, indexDDL, triggerDDL}
	for _, stmts := range steps {
		for _, stmt := range stmts {
			if _, err := conn.Exec(stmt); err != nil {
				return apperr.Storage(fmt.Sprintf("apply schema: %s", firstLine(stmt)), err)
			}
		}
	}

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return apperr.Storage("create schema_version", err)
	}
	if _, err := conn.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return apperr.Storage("write schema version", err)
	}
	return nil
}

// Version returns the highest schema version recorded in the store.
func (db *DB) Version() (int, error) {
	var v int
	if err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v); err != nil {
		return 0, storageErr("read schema version", err)
	}
	return v, nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' || r == '(' {
			return stmt[:i]
		}
	}
	return stmt
}
