package tools

import (
	"errors"
	"fmt"
)

var (
	ErrFileAccess        = errors.New("document not accessible")
	ErrSearchUnavailable = errors.New("search unavailable")
)

// FileAccessError reports a document that is missing, unreadable or not a
// parseable PDF.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrFileAccess, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", ErrFileAccess, e.Path, e.Err)
}

func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }

func (e *FileAccessError) Unwrap() error { return e.Err }

// SearchUnavailableError reports a search that could not be served: timeout,
// quota, network failure or missing credentials.
type SearchUnavailableError struct {
	Query  string
	Reason string
	Err    error
}

func (e *SearchUnavailableError) Error() string {
	msg := fmt.Sprintf("%s for %q", ErrSearchUnavailable, e.Query)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *SearchUnavailableError) Is(target error) bool { return target == ErrSearchUnavailable }

func (e *SearchUnavailableError) Unwrap() error { return e.Err }
