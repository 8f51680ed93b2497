package store

import (
	"database/sql"

	"github.com/synapse/synapse/internal/models"
)

const folderColumns = `id, name, parent_id, path, created_at, updated_at, position`

func scanFolder(s scanner) (*models.Folder, error) {
	var (
		f        models.Folder
		parentID sql.NullString
		created  int64
		updated  int64
	)
	if err := s.Scan(&f.ID, &f.Name, &parentID, &f.Path, &created, &updated, &f.Position); err != nil {
		return nil, err
	}
	f.ParentID = stringPtr(parentID)
	f.CreatedAt = fromMillis(created)
	f.UpdatedAt = fromMillis(updated)
	return &f, nil
}

func (db *DB) queryFolders(op, query string, args ...any) ([]models.Folder, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CreateFolder inserts a folder row.
func (db *DB) CreateFolder(f *models.Folder) error {
	_, err := db.conn.Exec(`INSERT INTO folders (`+folderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, nullString(f.ParentID), f.Path, toMillis(f.CreatedAt), toMillis(f.UpdatedAt), f.Position)
	if err != nil {
		return storageErr("insert folder", err)
	}
	return nil
}

// GetFolder returns the folder or nil when absent.
func (db *DB) GetFolder(id string) (*models.Folder, error) {
	f, err := scanFolder(db.conn.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE id = ?`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get folder", err)
	}
	return f, nil
}

// RootFolders returns folders without a parent, by position.
func (db *DB) RootFolders() ([]models.Folder, error) {
	return db.queryFolders("root folders",
		`SELECT `+folderColumns+` FROM folders WHERE parent_id IS NULL ORDER BY position, rowid`)
}

// ChildFolders returns the direct children of parentID, by position.
func (db *DB) ChildFolders(parentID string) ([]models.Folder, error) {
	return db.queryFolders("child folders",
		`SELECT `+folderColumns+` FROM folders WHERE parent_id = ? ORDER BY position, rowid`, parentID)
}

// ListFolders returns every folder ordered by materialized path.
func (db *DB) ListFolders() ([]models.Folder, error) {
	return db.queryFolders("list folders",
		`SELECT `+folderColumns+` FROM folders ORDER BY path, position`)
}

// UpdateFolder overwrites name, parent, path and position. The path is
// stored as given.
func (db *DB) UpdateFolder(f *models.Folder) error {
	_, err := db.conn.Exec(`UPDATE folders SET name = ?, parent_id = ?, path = ?, updated_at = ?, position = ? WHERE id = ?`,
		f.Name, nullString(f.ParentID), f.Path, toMillis(f.UpdatedAt), f.Position, f.ID)
	if err != nil {
		return storageErr("update folder", err)
	}
	return nil
}

// DeleteFolder removes the row; note_folders rows cascade.
func (db *DB) DeleteFolder(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM folders WHERE id = ?`, id); err != nil {
		return storageErr("delete folder", err)
	}
	return nil
}
