package domain

import (
	"context"
	"errors"
)

// ErrCodeNotFound is returned when a scanned code matches no guest of the
// event. Kept distinct from ErrNotFound so door devices can tell a bad scan
// from a missing event.
var ErrCodeNotFound = errors.New("code matches no guest")

// ErrAlreadyCheckedIn is returned when the guest behind a code is already
// checked in. Benign: the guard likely scanned twice. The existing record is
// returned alongside.
var ErrAlreadyCheckedIn = errors.New("guest already checked in")

// ErrNotAuthorized is returned when the caller is neither an assigned guard
// of the event nor its owner.
var ErrNotAuthorized = errors.New("not authorized to check in guests")

// CheckInService is the entry point for admitting guests. The transition is
// one-way; re-admitting a mistakenly checked-in guest is an organizer edit,
// not an engine operation.
type CheckInService interface {
	// CheckIn validates the guard's authorization and the code, then flips
	// the guest to checked-in. admitted is true when this call performed the
	// flip and false when the guest was already checked in (in which case
	// the existing record is returned and err is nil).
	CheckIn(ctx context.Context, eventID, code, guardID string) (guest *Guest, admitted bool, err error)
}
