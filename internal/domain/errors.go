package domain

import (
	"errors"
	"fmt"
)

// AuthenticationError covers bad credentials, expired sessions and orphaned
// credentials (a credential whose profile document is gone).
type AuthenticationError struct {
	Msg string
	Err error
}

func (e AuthenticationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "authentication failed"
}

func (e AuthenticationError) Unwrap() error { return e.Err }

// AuthorizationError means a role or ownership check failed. Raised before
// any store write is issued, never retried.
type AuthorizationError struct {
	Op  string
	Msg string
}

func (e AuthorizationError) Error() string {
	switch {
	case e.Op != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Op != "":
		return fmt.Sprintf("%s: not allowed", e.Op)
	case e.Msg != "":
		return e.Msg
	default:
		return "not allowed"
	}
}

// ValidationError means a required field is missing or invalid.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	case e.Msg != "":
		return e.Msg
	default:
		return "validation error"
	}
}

// StateError means the operation does not apply to the entity's current
// state, e.g. marking a trip paid before its fare is set.
type StateError struct {
	Msg string
}

func (e StateError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "invalid state"
}

// RemoteWriteError wraps a store/network failure. Surfaced to the caller
// with no automatic retry; mirrored state is left intact.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e RemoteWriteError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("remote write failed: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote write failed: %v", e.Err)
}

func (e RemoteWriteError) Unwrap() error { return e.Err }

// NotFoundError reports a missing document.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func IsAuthentication(err error) bool {
	var target AuthenticationError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target AuthorizationError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target StateError
	return errors.As(err, &target)
}

func IsRemoteWrite(err error) bool {
	var target RemoteWriteError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}
