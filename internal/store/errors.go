package store

import (
	"errors"
	"fmt"
)

var (
	// ErrRead and ErrParse are diagnostic kinds. Loads never return them.
	ErrRead  = errors.New("read failed")
	ErrParse = errors.New("parse failed")

	ErrWrite            = errors.New("write failed")
	ErrInvalidDirectory = errors.New("invalid directory")
	ErrNotWritable      = errors.New("directory is not writable")
	ErrCopyFailed       = errors.New("failed to copy data")
)

// LocationError reports why a data directory change was rejected.
type LocationError struct {
	Kind error
	Path string
	Err  error
}

func (e *LocationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind.Error(), e.Path, e.Err)
}

func (e *LocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func locationErr(kind error, path string, err error) error {
	return &LocationError{Kind: kind, Path: path, Err: err}
}

// writeErr marks err as a save failure while keeping the cause reachable.
func writeErr(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, ErrWrite, err)
}
