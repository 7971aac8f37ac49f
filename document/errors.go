package document

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPath       = errors.New("document: heading path is empty")
	ErrHeadingNotFound = errors.New("document: heading not found")
)

// HeadingNotFoundError names the exact path segment that failed to resolve.
type HeadingNotFoundError struct {
	Segment string
}

func (e *HeadingNotFoundError) Error() string {
	if e == nil || e.Segment == "" {
		return ErrHeadingNotFound.Error()
	}
	return fmt.Sprintf("%s: %q", ErrHeadingNotFound.Error(), e.Segment)
}

func (e *HeadingNotFoundError) Unwrap() error {
	return ErrHeadingNotFound
}
