package store

import (
	"errors"
	"os"
)

// Common store errors.
var (
	// ErrInvalidArtifactID is returned when a task id cannot name an artifact
	// file, for example because it contains a path separator.
	ErrInvalidArtifactID = errors.New("invalid artifact id")

	// ErrArtifactNotFound is returned when removing an artifact that does not exist.
	// It matches os.ErrNotExist so callers may check either.
	ErrArtifactNotFound = os.ErrNotExist
)
