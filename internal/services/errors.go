// Package services defines the business logic for users, posts, and likes.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"fmt"
)

// User-related errors.
var (
	// ErrDuplicateUsername is returned when registering a username that is
	// already taken. The first registration is unaffected.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUserNotFound indicates that the requested user does not exist. For
	// login this is deliberately distinct from a wrong-password failure; it
	// leaks username existence and stays that way until an explicit security
	// requirement says otherwise.
	ErrUserNotFound = errors.New("user does not exist")

	// ErrWrongPassword is returned when login credentials name an existing
	// user but the password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
)

// Post-related errors.
var (
	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")
)

// ValidationError reports a field-level constraint violation on input
// parameters. It names the offending field and the constraint so handlers
// can surface actionable detail.
type ValidationError struct {
	Field      string
	Constraint string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Constraint)
}

// minLengthError builds the ValidationError used by all minimum-length
// checks.
func minLengthError(field string, min int) *ValidationError {
	return &ValidationError{
		Field:      field,
		Constraint: fmt.Sprintf("must be at least %d characters long", min),
	}
}
