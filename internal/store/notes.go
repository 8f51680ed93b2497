package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/synapse/synapse/internal/models"
)

// Column order here and in scanNote must match.
const noteColumns = `id, title, content_path, created_at, updated_at, word_count, is_deleted, deleted_at`

var (
	qNoteByID = variants{
		active: `SELECT ` + noteColumns + ` FROM notes WHERE id = ? AND is_deleted = 0`,
		all:    `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`,
	}
	qNotesAll = variants{
		active: `SELECT ` + noteColumns + ` FROM notes WHERE is_deleted = 0 ORDER BY updated_at DESC, rowid DESC`,
		all:    `SELECT ` + noteColumns + ` FROM notes ORDER BY updated_at DESC, rowid DESC`,
	}
	qNotesByTitle = variants{
		active: `SELECT ` + noteColumns + ` FROM notes WHERE title LIKE ? ESCAPE '\' AND is_deleted = 0 ORDER BY updated_at DESC, rowid DESC`,
		all:    `SELECT ` + noteColumns + ` FROM notes WHERE title LIKE ? ESCAPE '\' ORDER BY updated_at DESC, rowid DESC`,
	}
	qNotesByFolder = variants{
		active: `SELECT n.id, n.title, n.content_path, n.created_at, n.updated_at, n.word_count, n.is_deleted, n.deleted_at
			FROM notes n INNER JOIN note_folders nf ON n.id = nf.note_id
			WHERE nf.folder_id = ? AND n.is_deleted = 0
			ORDER BY nf.position, n.updated_at DESC`,
		all: `SELECT n.id, n.title, n.content_path, n.created_at, n.updated_at, n.word_count, n.is_deleted, n.deleted_at
			FROM notes n INNER JOIN note_folders nf ON n.id = nf.note_id
			WHERE nf.folder_id = ?
			ORDER BY nf.position, n.updated_at DESC`,
	}
	qNotesByTag = variants{
		active: `SELECT n.id, n.title, n.content_path, n.created_at, n.updated_at, n.word_count, n.is_deleted, n.deleted_at
			FROM notes n INNER JOIN note_tags nt ON n.id = nt.note_id
			WHERE nt.tag_id = ? AND n.is_deleted = 0
			ORDER BY n.updated_at DESC`,
		all: `SELECT n.id, n.title, n.content_path, n.created_at, n.updated_at, n.word_count, n.is_deleted, n.deleted_at
			FROM notes n INNER JOIN note_tags nt ON n.id = nt.note_id
			WHERE nt.tag_id = ?
			ORDER BY n.updated_at DESC`,
	}
)

func scanNote(s scanner) (*models.Note, error) {
	var (
		n         models.Note
		created   int64
		updated   int64
		isDeleted int
		deletedAt sql.NullInt64
	)
	if err := s.Scan(&n.ID, &n.Title, &n.ContentPath, &created, &updated, &n.WordCount, &isDeleted, &deletedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = fromMillis(created)
	n.UpdatedAt = fromMillis(updated)
	n.IsDeleted = isDeleted != 0
	n.DeletedAt = timePtr(deletedAt)
	return &n, nil
}

func (db *DB) queryNotes(op, query string, args ...any) ([]models.Note, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CreateNote inserts the note row and indexes title and body for full-text
// search in one transaction.
func (db *DB) CreateNote(n *models.Note, body string) error {
	return db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Title, n.ContentPath, toMillis(n.CreatedAt), toMillis(n.UpdatedAt),
			n.WordCount, boolInt(n.IsDeleted), nullMillis(n.DeletedAt))
		if err != nil {
			return storageErr("insert note", err)
		}
		return ftsReplaceNote(tx, n.ID, n.Title, body)
	})
}

// GetNote returns the note or nil when no (visible) row has that id.
func (db *DB) GetNote(id string, includeDeleted bool) (*models.Note, error) {
	n, err := scanNote(db.conn.QueryRow(qNoteByID.pick(includeDeleted), id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get note", err)
	}
	return n, nil
}

// GetNoteByContentPath looks a note up by its relative body path,
// soft-deleted rows included.
func (db *DB) GetNoteByContentPath(contentPath string) (*models.Note, error) {
	n, err := scanNote(db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE content_path = ?`, contentPath))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get note by path", err)
	}
	return n, nil
}

// ListNotes returns notes ordered by most recently updated first.
func (db *DB) ListNotes(includeDeleted bool) ([]models.Note, error) {
	return db.queryNotes("list notes", qNotesAll.pick(includeDeleted))
}

// SearchNotesByTitle matches query as a substring of the title. LIKE is
// case-insensitive for ASCII under SQLite's default collation.
func (db *DB) SearchNotesByTitle(query string, includeDeleted bool) ([]models.Note, error) {
	return db.queryNotes("search notes by title", qNotesByTitle.pick(includeDeleted), "%"+escapeLike(query)+"%")
}

// NotesInFolder returns the notes filed in folderID, ordered by their
// position in that folder.
func (db *DB) NotesInFolder(folderID string, includeDeleted bool) ([]models.Note, error) {
	return db.queryNotes("notes in folder", qNotesByFolder.pick(includeDeleted), folderID)
}

// NotesWithTag returns the notes carrying tagID.
func (db *DB) NotesWithTag(tagID string, includeDeleted bool) ([]models.Note, error) {
	return db.queryNotes("notes with tag", qNotesByTag.pick(includeDeleted), tagID)
}

// UpdateNote overwrites every mutable column of the row. The title is
// re-indexed; the body is re-indexed only when body is non-nil.
func (db *DB) UpdateNote(n *models.Note, body *string) error {
	return db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE notes
			SET title = ?, content_path = ?, updated_at = ?, word_count = ?, is_deleted = ?, deleted_at = ?
			WHERE id = ?`,
			n.Title, n.ContentPath, toMillis(n.UpdatedAt), n.WordCount,
			boolInt(n.IsDeleted), nullMillis(n.DeletedAt), n.ID)
		if err != nil {
			return storageErr("update note", err)
		}
		if body != nil {
			return ftsReplaceNote(tx, n.ID, n.Title, *body)
		}
		if _, err := tx.Exec(`UPDATE notes_fts SET title = ? WHERE note_id = ?`, n.Title, n.ID); err != nil {
			return storageErr("update note fts title", err)
		}
		return nil
	})
}

// SoftDeleteNote flags the row deleted. Related rows and the body file are untouched.
func (db *DB) SoftDeleteNote(id string, at time.Time) error {
	if _, err := db.conn.Exec(`UPDATE notes SET is_deleted = 1, deleted_at = ? WHERE id = ?`, toMillis(at), id); err != nil {
		return storageErr("soft delete note", err)
	}
	return nil
}

// RestoreNote clears the deleted flag.
func (db *DB) RestoreNote(id string) error {
	if _, err := db.conn.Exec(`UPDATE notes SET is_deleted = 0, deleted_at = NULL WHERE id = ?`, id); err != nil {
		return storageErr("restore note", err)
	}
	return nil
}

// IndexedNoteBody returns the body currently held in the full-text index.
func (db *DB) IndexedNoteBody(id string) (string, bool, error) {
	var body string
	err := db.conn.QueryRow(`SELECT body FROM notes_fts WHERE note_id = ?`, id).Scan(&body)
	if noRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("read indexed body", err)
	}
	return body, true, nil
}

func ftsReplaceNote(tx execer, id, title, body string) error {
	if _, err := tx.Exec(`DELETE FROM notes_fts WHERE note_id = ?`, id); err != nil {
		return storageErr("delete note fts", err)
	}
	if _, err := tx.Exec(`INSERT INTO notes_fts (note_id, title, body) VALUES (?, ?, ?)`, id, title, body); err != nil {
		return storageErr("insert note fts", err)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
