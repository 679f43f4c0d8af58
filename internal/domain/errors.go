package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction   = errors.New("unrecognized interaction action")
	ErrSelfInteraction = errors.New("cannot interact with yourself")
	ErrProfileNotFound = errors.New("profile not found")
	ErrVentureNotFound = errors.New("venture not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrUnauthorized    = errors.New("unauthorized")

	// ErrDuplicate is returned by stores when a uniqueness constraint fires.
	// The state machine treats it as success for like/block/match inserts.
	ErrDuplicate = errors.New("duplicate row")
)

// DependencyError marks a failure of an external collaborator (relational
// store, vector source, embedding provider). Error() names the dependency
// only; the underlying cause stays behind Unwrap for logging.
type DependencyError struct {
	Dependency string
	Err        error
}

func NewDependencyError(dependency string, err error) *DependencyError {
	return &DependencyError{Dependency: dependency, Err: err}
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable", e.Dependency)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
