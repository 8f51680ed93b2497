package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/synapse/synapse/internal/apperr"
	"github.com/synapse/synapse/internal/models"
)

const (
	maxTitleLen = 500
	maxNameLen  = 255
)

// invalid turns an ozzo-validation result into an InvalidInput error.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return apperr.Invalid("%s", verrs.Error())
	}
	return apperr.Invalid("%s", err.Error())
}

// checkField validates a single value and prefixes failures with field.
func checkField(field string, value any, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return apperr.Invalid("%s: %s", field, err.Error())
	}
	return nil
}

var notBlank = validation.By(func(v any) error {
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var noSlash = validation.By(func(v any) error {
	s, _ := v.(string)
	if strings.Contains(s, "/") {
		return errors.New("must not contain '/'")
	}
	return nil
})

var validBlockType = validation.By(func(v any) error {
	if t, _ := v.(models.BlockType); !t.Valid() {
		return errors.New("unknown block type")
	}
	return nil
})

var nonNegative = validation.Min(int64(0))
