package reindex

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrImageDirRequired is returned when a source image directory is not provided.
	ErrImageDirRequired = errors.New("image directory required")
)
