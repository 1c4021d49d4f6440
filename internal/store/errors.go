package store

import "errors"

// ErrNotFound is returned when a requested row does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness or foreign-key
// constraint.
var ErrConflict = errors.New("conflict")
