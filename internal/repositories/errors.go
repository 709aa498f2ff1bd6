package repositories

import "errors"

var (
	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index
	// (category name, product barcode, user email).
	ErrDuplicateKey = errors.New("duplicate key")
)
