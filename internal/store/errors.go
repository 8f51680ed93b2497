package store

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/synapse/synapse/internal/apperr"
)

// storageErr classifies a driver error: uniqueness violations become
// Conflict, other constraint failures InvalidInput, the rest Storage.
func storageErr(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &apperr.Error{Kind: apperr.ErrConflict, Msg: op, Err: err}
		default:
			return &apperr.Error{Kind: apperr.ErrInvalidInput, Msg: op, Err: err}
		}
	}
	return apperr.Storage(op, err)
}

// noRows reports whether err is sql.ErrNoRows.
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
