package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusCanceled EventStatus = "canceled"
)

// IsValid reports whether s is one of the known event statuses.
func (s EventStatus) IsValid() bool {
	return s == EventStatusActive || s == EventStatusCanceled
}

// Event represents an event with a guest capacity and its two running
// totals. The totals move only as a side effect of guest-lifecycle
// operations and always satisfy 0 <= TotalCheckedIn <= TotalInvited.
// swagger:model Event
type Event struct {
	ID             string      `json:"id"`
	OwnerID        string      `json:"owner_id"`
	Name           string      `json:"name"`
	Status         EventStatus `json:"status"`
	Date           *time.Time  `json:"date"`
	LocationName   *string     `json:"location_name"`
	LocationLat    *float64    `json:"location_lat"`
	LocationLng    *float64    `json:"location_lng"`
	Capacity       int         `json:"capacity"`
	TotalInvited   int         `json:"total_invited"`
	TotalCheckedIn int         `json:"total_checked_in"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewEvent returns a new active Event with zeroed totals. ID and timestamps
// are set on create.
func NewEvent(ownerID, name string, capacity int) *Event {
	return &Event{
		OwnerID:  ownerID,
		Name:     name,
		Status:   EventStatusActive,
		Capacity: capacity,
	}
}

// EventUpdate holds the optional fields of an event edit. Nil means leave
// unchanged. The counters are deliberately absent: no edit path may touch
// them directly.
type EventUpdate struct {
	Name         *string
	Status       *EventStatus
	Date         *time.Time
	LocationName *string
	LocationLat  *float64
	LocationLng  *float64
	Capacity     *int
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	// Delete removes the event and cascades to its guests and guards.
	Delete(ctx context.Context, id string) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID, callerID string) (*Event, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
}
