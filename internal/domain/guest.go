package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCapacityExceeded is returned when registering a guest would push
// total_invited past the event capacity and no organizer override was
// requested.
var ErrCapacityExceeded = errors.New("event capacity exceeded")

// ErrAlreadyRegistered is returned when a self-service registration finds an
// existing guest record for the same (event, account) pair. No duplicate is
// created and no counter is mutated.
var ErrAlreadyRegistered = errors.New("already registered for event")

// InvitationStatus is the RSVP status of a guest.
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusConfirmed InvitationStatus = "confirmed"
	InvitationStatusDeclined  InvitationStatus = "declined"
)

// IsValid reports whether s is one of the known invitation statuses.
func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusConfirmed, InvitationStatusDeclined:
		return true
	}
	return false
}

// Guest represents a person (or group) on an event's guest list.
//
// UserID links the guest to an account when the guest self-registered; it is
// nil for guests added manually by the organizer. Code is the opaque random
// token that is the sole check-in credential: generated once, immutable, and
// unique within the event. CheckedIn implies CheckedInAt and CheckedInBy are
// both set; not checked in implies both are nil.
// swagger:model Guest
type Guest struct {
	ID          string           `json:"id"`
	EventID     string           `json:"event_id"`
	UserID      *string          `json:"user_id"`
	Name        string           `json:"name"`
	Companions  int              `json:"companions"`
	Status      InvitationStatus `json:"status"`
	CheckedIn   bool             `json:"checked_in"`
	CheckedInAt *time.Time       `json:"checked_in_at"`
	CheckedInBy *string          `json:"checked_in_by"`
	Code        string           `json:"code"`
	Note        *string          `json:"note"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// GroupSize is the admitted head count for the guest: companions plus the
// guest themselves. It is derived, never stored.
func (g *Guest) GroupSize() int {
	return g.Companions + 1
}

// NewGuest returns a new Guest that is not checked in. ID is set by the
// repository on create.
func NewGuest(eventID, name, code string, companions int, status InvitationStatus, createdAt, updatedAt time.Time) *Guest {
	return &Guest{
		EventID:    eventID,
		Name:       name,
		Companions: companions,
		Status:     status,
		Code:       code,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// GuestUpdate holds the organizer-editable fields of a guest. Nil means
// leave unchanged. Check-in fields and the code are immutable through this
// path.
type GuestUpdate struct {
	Name       *string
	Companions *int
	Status     *InvitationStatus
	Note       *string
}

// GuestRepository defines storage operations for guests. CreateWithCount,
// DeleteWithCount, and CheckInByCode are the atomic units of §4 of the
// design: each combines the guest row write with the event counter
// adjustment in a single storage transaction, so concurrent callers can
// never observe the guest set and the counters out of step.
type GuestRepository interface {
	// CreateWithCount inserts the guest and increments total_invited in one
	// transaction. With enforceCapacity, the increment is conditional on
	// total_invited < capacity and the call fails with ErrCapacityExceeded
	// when the event is full. A duplicate (event_id, user_id) pair fails
	// with ErrAlreadyRegistered. ErrNotFound if the event does not exist.
	CreateWithCount(ctx context.Context, guest *Guest, enforceCapacity bool) error

	// DeleteWithCount deletes the guest and decrements total_invited (and
	// total_checked_in as well when the guest was checked in) in one
	// transaction. Decrements floor at zero. ErrNotFound if absent.
	DeleteWithCount(ctx context.Context, eventID, guestID string) error

	// CheckInByCode flips the guest with the given code to checked-in and
	// increments total_checked_in in one transaction. The flip is
	// conditional on checked_in = FALSE, so of N concurrent calls with the
	// same code exactly one succeeds; the rest get ErrAlreadyCheckedIn with
	// the existing record. ErrCodeNotFound if no guest has the code.
	// ErrInvariantViolation if the increment would exceed total_invited.
	CheckInByCode(ctx context.Context, eventID, code, guardID string, at time.Time) (*Guest, error)

	GetByID(ctx context.Context, eventID, guestID string) (*Guest, error)
	GetByCode(ctx context.Context, eventID, code string) (*Guest, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Guest, error)
	Update(ctx context.Context, eventID, guestID string, upd GuestUpdate) (*Guest, error)
	// ListByEventID returns a page of the event's guests plus the total
	// count. search, when non-empty, filters by case-insensitive name
	// substring (no wildcard syntax).
	ListByEventID(ctx context.Context, eventID, search string, params PaginationParams) ([]*Guest, int, error)
	ListByUserID(ctx context.Context, userID string) ([]*Guest, error)
}

// GuestWithEvent bundles a guest record with its event.
type GuestWithEvent struct {
	Guest *Guest `json:"guest"`
	Event *Event `json:"event"`
}

// GuestService defines guest-lifecycle operations.
type GuestService interface {
	// RegisterGuest adds a guest manually on behalf of the event owner with
	// status pending. override bypasses the capacity check.
	RegisterGuest(ctx context.Context, eventID, ownerID, name string, companions int, note *string, override bool) (*Guest, error)
	// ConfirmAttendance is the self-service flow: the authenticated account
	// registers itself with status confirmed. Fails with ErrAlreadyRegistered
	// if a guest record for (event, account) already exists.
	ConfirmAttendance(ctx context.Context, eventID, userID string, companions int) (*Guest, error)
	UpdateGuest(ctx context.Context, eventID, guestID, ownerID string, upd GuestUpdate) (*Guest, error)
	RemoveGuest(ctx context.Context, eventID, guestID, ownerID string) error
	// ListGuests is available to the event owner and assigned guards.
	ListGuests(ctx context.Context, eventID, callerID, search string, params PaginationParams) ([]*Guest, int, error)
	ListMyGuestRecords(ctx context.Context, userID string) ([]*GuestWithEvent, error)
}
