package services

import "errors"

// Service-level error kinds. Handlers map these to HTTP response
// categories with errors.Is.
var (
	// ErrNotFound means a referenced request, trip, driver or vehicle id
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed means Resolve was called on a request that has
	// already left the pending state.
	ErrAlreadyProcessed = errors.New("request already processed")

	// ErrInvalidTransition means a trip status change was requested from a
	// state that does not permit it.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden means the caller lacks authorization for the target.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")

	// ErrBadPayload means a creation request's stored payload could not be
	// deserialized at approval time.
	ErrBadPayload = errors.New("invalid request payload")

	// ErrInvalidCredentials means the email or password did not match, or
	// the account is deactivated.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
