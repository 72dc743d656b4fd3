package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound covers both a malformed post id and a missing row;
	// callers cannot tell the two apart.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a comment id does not exist under
	// the addressed post.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrForbidden is returned when the actor is neither the resource owner
	// nor an administrator.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports a missing or empty required field. It is raised
// before any write happens.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
