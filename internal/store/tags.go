package store

import (
	"database/sql"

	"github.com/synapse/synapse/internal/models"
)

const tagColumns = `id, name, color, icon, created_at`

func scanTag(s scanner) (*models.Tag, error) {
	var (
		t       models.Tag
		color   sql.NullString
		icon    sql.NullString
		created int64
	)
	if err := s.Scan(&t.ID, &t.Name, &color, &icon, &created); err != nil {
		return nil, err
	}
	t.Color = stringPtr(color)
	t.Icon = stringPtr(icon)
	t.CreatedAt = fromMillis(created)
	return &t, nil
}

func (db *DB) queryTags(op, query string, args ...any) ([]models.Tag, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CreateTag inserts a tag. A duplicate name yields a Conflict error.
func (db *DB) CreateTag(t *models.Tag) error {
	_, err := db.conn.Exec(`INSERT INTO tags (`+tagColumns+`) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, nullString(t.Color), nullString(t.Icon), toMillis(t.CreatedAt))
	if err != nil {
		return storageErr("insert tag", err)
	}
	return nil
}

// GetTag returns the tag or nil when absent.
func (db *DB) GetTag(id string) (*models.Tag, error) {
	t, err := scanTag(db.conn.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get tag", err)
	}
	return t, nil
}

// GetTagByName does an exact, case-sensitive lookup.
func (db *DB) GetTagByName(name string) (*models.Tag, error) {
	t, err := scanTag(db.conn.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE name = ?`, name))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get tag by name", err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (db *DB) ListTags() ([]models.Tag, error) {
	return db.queryTags("list tags", `SELECT `+tagColumns+` FROM tags ORDER BY name`)
}

// TagsForNote returns the tags attached to noteID, ordered by name.
func (db *DB) TagsForNote(noteID string) ([]models.Tag, error) {
	return db.queryTags("tags for note", `SELECT t.id, t.name, t.color, t.icon, t.created_at
		FROM tags t INNER JOIN note_tags nt ON t.id = nt.tag_id
		WHERE nt.note_id = ?
		ORDER BY t.name`, noteID)
}

// UpdateTag overwrites name, color and icon.
func (db *DB) UpdateTag(t *models.Tag) error {
	_, err := db.conn.Exec(`UPDATE tags SET name = ?, color = ?, icon = ? WHERE id = ?`,
		t.Name, nullString(t.Color), nullString(t.Icon), t.ID)
	if err != nil {
		return storageErr("update tag", err)
	}
	return nil
}

// DeleteTag removes the tag; note_tags rows cascade.
func (db *DB) DeleteTag(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM tags WHERE id = ?`, id); err != nil {
		return storageErr("delete tag", err)
	}
	return nil
}
