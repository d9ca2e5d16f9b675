package idalloc

import "errors"

var (
	// ErrOutOfRange is returned when a requested ID falls outside the
	// configured range, or when the range has no free value left.
	ErrOutOfRange = errors.New("id out of range")

	// ErrConflict is returned when a requested ID is already held by an
	// existing entry.
	ErrConflict = errors.New("id already in use")
)
