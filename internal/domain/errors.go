package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP status codes; services pass them through with errors.Is and
// wrap everything else with fmt.Errorf("...: %w", err).
var (
	// ErrNotFound is returned when an event, guest, or guard does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is not the event owner (or,
	// for listing guests, neither owner nor assigned guard).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned on malformed input that retrying without
	// change cannot fix (blank name, negative companions, bad status, ...).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation is returned when a counter adjustment would make
	// total_checked_in exceed total_invited. It indicates the stored data is
	// already inconsistent and must be logged at error level by the caller.
	ErrInvariantViolation = errors.New("counter invariant violation")
)
