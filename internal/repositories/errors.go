package repositories

import "errors"

// ErrNotFound is returned by lookups that match no record. Implementations
// wrap it with context, so callers must test with errors.Is.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")
