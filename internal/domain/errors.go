package domain

import "errors"

// Sentinel errors for the scheduling engine. Services wrap these with
// fmt.Errorf("...: %w", err) to add detail; the delivery layer maps them
// to HTTP status codes with errors.Is.
var (
	// ErrNotFound is returned when a referenced room, event, user or
	// application does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor's role is not permitted to
	// perform the requested operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned for an illegal status transition, or when
	// a field required by the transition (e.g. a rejection comment) is
	// missing.
	ErrInvalidState = errors.New("invalid state")

	// ErrBookingConflict is returned when a room booking overlaps an
	// existing pending or approved booking, or the room is unavailable.
	ErrBookingConflict = errors.New("booking conflict")

	// ErrEntityConflict is returned for a duplicate active application or
	// when an event's capacity is exhausted.
	ErrEntityConflict = errors.New("entity conflict")

	// ErrInvalidInput is returned when the request payload is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateLogin is returned when registering a login that is taken.
	ErrDuplicateLogin = errors.New("login already in use")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
