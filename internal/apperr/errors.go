// Package apperr defines the error taxonomy shared by the store and service layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrIO           = errors.New("io error")
	ErrStorage      = errors.New("storage error")
)

// Error carries a kind sentinel plus the entity and id the failure concerns.
// errors.Is matches both the kind and the wrapped cause.
type Error struct {
	Kind   error
	Entity string
	ID     string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Msg != "":
		msg += ": " + e.Msg
	case e.Entity != "" && e.ID != "":
		msg += ": " + e.Entity + " " + e.ID
	case e.Entity != "":
		msg += ": " + e.Entity
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound reports a missing entity, e.g. NotFound("note", id).
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Invalid reports a violated precondition.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// IO wraps a filesystem failure.
func IO(op string, err error) error {
	return &Error{Kind: ErrIO, Msg: op, Err: err}
}

// Storage wraps a relational store failure.
func Storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Msg: op, Err: err}
}
