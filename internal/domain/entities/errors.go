package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCheckver is returned when a checkver block cannot be mapped to a strategy.
	ErrInvalidCheckver = errors.New("invalid checkver configuration")

	// ErrNoResult signals that a strategy could not produce a version.
	ErrNoResult = errors.New("no version result")

	// ErrRunDeadlineExceeded is returned when the whole run outlives its deadline.
	ErrRunDeadlineExceeded = errors.New("run deadline exceeded")

	// ErrHistoryUnavailable is returned when the workspace history cannot be read.
	ErrHistoryUnavailable = errors.New("workspace history unavailable")
)

// RepositoryAccessError wraps a clone, fetch, checkout or pull failure. It is
// fatal to the application being checked and to nothing else.
type RepositoryAccessError struct {
	Repo string
	Op   string
	Err  error
}

func (e *RepositoryAccessError) Error() string {
	return fmt.Sprintf("repository %s: %s failed: %v", e.Repo, e.Op, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }

// VersionExtractionError means a strategy ran but no usable version was found
// (missing file, regex without match, invalid version syntax, no tags).
type VersionExtractionError struct {
	Strategy CheckType
	Reason   string
	Err      error
}

func (e *VersionExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Strategy, e.Reason, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Strategy, e.Reason)
}

func (e *VersionExtractionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNoResult
}

// DiffCollectionError describes a failed commit-info sub-query. It is only
// ever logged.
type DiffCollectionError struct {
	Query string
	Err   error
}

func (e *DiffCollectionError) Error() string {
	return fmt.Sprintf("commit info %s: %v", e.Query, e.Err)
}

func (e *DiffCollectionError) Unwrap() error { return e.Err }

// AggregationError wraps a failure while rendering the file changes of an
// application. The application is excluded from the update records.
type AggregationError struct {
	Context string
	Err     error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate %s: %v", e.Context, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// NewExtractionError builds a VersionExtractionError.
func NewExtractionError(strategy CheckType, reason string, err error) error {
	return &VersionExtractionError{Strategy: strategy, Reason: reason, Err: err}
}

// IsRepositoryAccess reports whether err is (or wraps) a RepositoryAccessError.
func IsRepositoryAccess(err error) bool {
	var target *RepositoryAccessError
	return errors.As(err, &target)
}

// IsExtraction reports whether err is (or wraps) a VersionExtractionError.
func IsExtraction(err error) bool {
	var target *VersionExtractionError
	return errors.As(err, &target)
}
