package domain

import (
	"context"
	"regexp"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPending   EventStatus = "pending"
	EventApproved  EventStatus = "approved"
	EventRejected  EventStatus = "rejected"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// EventType distinguishes official events from community-organized ones.
type EventType string

const (
	EventTypeOfficial  EventType = "official"
	EventTypeCommunity EventType = "community"
)

// Event represents a campus event occupying either an internal room or an
// external venue on a single day.
// swagger:model Event
type Event struct {
	ID                    string      `json:"id"`
	Title                 string      `json:"title"`
	Description           string      `json:"description"`
	EventDate             time.Time   `json:"event_date"`
	StartTime             string      `json:"start_time"`
	EndTime               string      `json:"end_time"`
	MaxParticipants       *int        `json:"max_participants,omitempty"`
	RegisteredCount       int         `json:"registered_count"`
	Status                EventStatus `json:"status"`
	EventType             EventType   `json:"event_type"`
	CreatorID             string      `json:"creator_id"`
	CuratorID             string      `json:"curator_id"`
	RoomID                *string     `json:"room_id,omitempty"`
	ExternalLocation      *string     `json:"external_location,omitempty"`
	IsExternalVenue       bool        `json:"is_external_venue"`
	NeedApproveCandidates bool        `json:"need_approve_candidates"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// clockTimeRegex matches a 24h wall-clock time "HH:MM".
var clockTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClockTime reports whether s is a well-formed "HH:MM" time.
func ValidClockTime(s string) bool {
	return clockTimeRegex.MatchString(s)
}

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd)
// intersect. Zero-padded "HH:MM" strings compare correctly as text, so
// back-to-back intervals (aEnd == bStart) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// ValidateSchedule checks the event's interval and booking target: start
// before end, both well-formed, and exactly one of room or external
// location set.
func (e *Event) ValidateSchedule() error {
	if !ValidClockTime(e.StartTime) || !ValidClockTime(e.EndTime) {
		return ErrInvalidInput
	}
	if e.StartTime >= e.EndTime {
		return ErrInvalidInput
	}
	hasRoom := e.RoomID != nil && *e.RoomID != ""
	hasExternal := e.ExternalLocation != nil && *e.ExternalLocation != ""
	if hasRoom == hasExternal {
		return ErrInvalidInput
	}
	return nil
}

// ElapsedBy reports whether the event's end has passed at the given moment.
func (e *Event) ElapsedBy(now time.Time) bool {
	day := e.EventDate.Format("2006-01-02")
	today := now.Format("2006-01-02")
	if day != today {
		return day < today
	}
	return e.EndTime <= now.Format("15:04")
}

// Full reports whether the event has no remaining seats.
func (e *Event) Full() bool {
	return e.MaxParticipants != nil && e.RegisteredCount >= *e.MaxParticipants
}

// EventFilter narrows List queries.
type EventFilter struct {
	Status    *EventStatus
	Date      *time.Time
	CreatorID string
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByIDForUpdate locks the event row for the rest of the transaction,
	// serializing status transitions and registered_count updates.
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus, updatedAt time.Time) error
	// IncrementRegisteredCount atomically adds delta and returns the new
	// count. Callers hold the event row lock.
	IncrementRegisteredCount(ctx context.Context, id string, delta int) (int, error)
	ResetRegisteredCount(ctx context.Context, id string) error
	// ListRoomConflicts returns pending/approved events in the room whose
	// [start_time, end_time) overlaps [start, end) on date, excluding
	// excludeEventID when non-empty.
	ListRoomConflicts(ctx context.Context, roomID string, date time.Time, start, end, excludeEventID string) ([]*Event, error)
	// ListElapsedApproved returns approved events whose end has passed:
	// event_date before onDate, or equal to onDate with end_time <= atTime.
	ListElapsedApproved(ctx context.Context, onDate time.Time, atTime string) ([]*Event, error)
}

// EventService defines the lifecycle operations around the state machine.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, actor Actor) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	// Transition moves the event to target on behalf of actor, appending a
	// moderation history entry and returning the notification intents the
	// caller must dispatch.
	Transition(ctx context.Context, eventID string, target EventStatus, actor Actor, comment string) (*Event, []NotificationIntent, error)
	// CompleteElapsedEvents transitions every elapsed approved event to
	// completed as the system actor. Returns the number completed.
	CompleteElapsedEvents(ctx context.Context, now time.Time) (int, []NotificationIntent, error)
}
