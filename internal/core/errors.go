package core

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrProfileNotFound means the authenticated identity has no teacher record.
	ErrProfileNotFound = errors.New("teacher profile not found")
	// ErrForbidden means the entry belongs to another teacher.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced entry does not exist.
	ErrNotFound = errors.New("journal entry not found")
)

// ValidationError carries one human-readable message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
