package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for any NotFoundError.
var ErrNotFound = errors.New("record not found")

// NotFoundError reports that a referenced entity does not resolve.
// Name is set instead of ID when the lookup was by username.
type NotFoundError struct {
	Kind string
	ID   int64
	Name string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Is makes NotFoundError match ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransientStoreError wraps a failed collaborator-store call. The core
// performs no retry; callers decide whether to retry at their layer.
type TransientStoreError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error
func (e *TransientStoreError) Unwrap() error {
	return e.Err
}
