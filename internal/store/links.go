package store

import (
	"database/sql"
	"fmt"

	"github.com/synapse/synapse/internal/models"
)

const linkColumns = `id, source_note_id, target_note_id, source_block_id, target_block_id, link_type, link_text, created_at`

func scanLink(s scanner) (*models.Link, error) {
	var (
		l           models.Link
		targetNote  sql.NullString
		sourceBlock sql.NullString
		targetBlock sql.NullString
		linkType    string
		linkText    sql.NullString
		created     int64
	)
	if err := s.Scan(&l.ID, &l.SourceNoteID, &targetNote, &sourceBlock, &targetBlock, &linkType, &linkText, &created); err != nil {
		return nil, err
	}
	lt, err := models.ParseLinkType(linkType)
	if err != nil {
		return nil, fmt.Errorf("link %s: %w", l.ID, err)
	}
	l.LinkType = lt
	l.TargetNoteID = stringPtr(targetNote)
	l.SourceBlockID = stringPtr(sourceBlock)
	l.TargetBlockID = stringPtr(targetBlock)
	l.LinkText = stringPtr(linkText)
	l.CreatedAt = fromMillis(created)
	return &l, nil
}

func (db *DB) queryLinks(op, query string, args ...any) ([]models.Link, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CreateLink inserts a link row. The table's CHECK rejects a link whose
// populated target does not match its type.
func (db *DB) CreateLink(l *models.Link) error {
	_, err := db.conn.Exec(`INSERT INTO links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SourceNoteID, nullString(l.TargetNoteID), nullString(l.SourceBlockID), nullString(l.TargetBlockID),
		string(l.LinkType), nullString(l.LinkText), toMillis(l.CreatedAt))
	if err != nil {
		return storageErr("insert link", err)
	}
	return nil
}

// GetLink returns the link or nil when absent.
func (db *DB) GetLink(id string) (*models.Link, error) {
	l, err := scanLink(db.conn.QueryRow(`SELECT `+linkColumns+` FROM links WHERE id = ?`, id))
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get link", err)
	}
	return l, nil
}

// OutgoingLinks returns links whose source is noteID, oldest first.
func (db *DB) OutgoingLinks(noteID string) ([]models.Link, error) {
	return db.queryLinks("outgoing links",
		`SELECT `+linkColumns+` FROM links WHERE source_note_id = ? ORDER BY created_at, rowid`, noteID)
}

// IncomingLinks returns links that target noteID.
func (db *DB) IncomingLinks(noteID string) ([]models.Link, error) {
	return db.queryLinks("incoming links",
		`SELECT `+linkColumns+` FROM links WHERE target_note_id = ? ORDER BY created_at, rowid`, noteID)
}

// LinksFromBlock returns links whose source block is blockID.
func (db *DB) LinksFromBlock(blockID string) ([]models.Link, error) {
	return db.queryLinks("links from block",
		`SELECT `+linkColumns+` FROM links WHERE source_block_id = ? ORDER BY created_at, rowid`, blockID)
}

// LinksToBlock returns links that target blockID.
func (db *DB) LinksToBlock(blockID string) ([]models.Link, error) {
	return db.queryLinks("links to block",
		`SELECT `+linkColumns+` FROM links WHERE target_block_id = ? ORDER BY created_at, rowid`, blockID)
}

// DeleteLink hard-deletes one link.
func (db *DB) DeleteLink(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM links WHERE id = ?`, id); err != nil {
		return storageErr("delete link", err)
	}
	return nil
}
