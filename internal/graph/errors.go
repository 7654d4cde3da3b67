package graph

import (
	"fmt"
)

// SelfFollowError reports an attempt by a user to follow themselves
type SelfFollowError struct {
	UserID int64
}

// Error implements the error interface
func (e *SelfFollowError) Error() string {
	return fmt.Sprintf("user %d cannot follow themselves", e.UserID)
}

// InvariantViolationError reports that a user's cached counter has
// diverged from the actual edge count
type InvariantViolationError struct {
	UserID  int64
	Counter string
	Cached  int64
	Actual  int64
}

// Error implements the error interface
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("user %d: cached %s count %d does not match %d edges",
		e.UserID, e.Counter, e.Cached, e.Actual)
}
