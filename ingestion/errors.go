package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrImageRepositoryRequired is returned when an image repository is not provided.
	ErrImageRepositoryRequired = errors.New("image repository required")

	// ErrImageEncoderRequired is returned when an image encoder is not provided.
	ErrImageEncoderRequired = errors.New("image encoder required")
)

// MissingFieldError reports a feed record that lacks a required field.
type MissingFieldError struct {
	Record int    // zero-based position of the record in the batch
	Field  string // name of the missing field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing required field %q", e.Record, e.Field)
}
