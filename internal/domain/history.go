package domain

import (
	"context"
	"time"
)

// EventModerationHistory is one append-only record of an event status
// transition. Exactly one is written per accepted transition.
// swagger:model EventModerationHistory
type EventModerationHistory struct {
	ID             string      `json:"id"`
	EventID        string      `json:"event_id"`
	Comment        string      `json:"comment"`
	PreviousStatus EventStatus `json:"previous_status"`
	NewStatus      EventStatus `json:"new_status"`
	ActorID        string      `json:"actor_id"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ApplicationHistory is one append-only record of an application status
// transition.
// swagger:model ApplicationHistory
type ApplicationHistory struct {
	ID             string            `json:"id"`
	ApplicationID  string            `json:"application_id"`
	Comment        string            `json:"comment"`
	PreviousStatus ApplicationStatus `json:"previous_status"`
	NewStatus      ApplicationStatus `json:"new_status"`
	ActorID        string            `json:"actor_id"`
	CreatedAt      time.Time         `json:"created_at"`
}

// HistoryRepository appends and lists audit records. There are no update
// or delete operations: history is immutable once written.
type HistoryRepository interface {
	CreateEventEntry(ctx context.Context, entry *EventModerationHistory) error
	CreateApplicationEntry(ctx context.Context, entry *ApplicationHistory) error
	// ListByEventID returns the event's moderation history ordered by
	// created_at ascending.
	ListByEventID(ctx context.Context, eventID string) ([]*EventModerationHistory, error)
	// ListByApplicationID returns the application's history ordered by
	// created_at ascending.
	ListByApplicationID(ctx context.Context, applicationID string) ([]*ApplicationHistory, error)
}

// ModerationService exposes audit trail queries to curators and admins.
type ModerationService interface {
	ListEventHistory(ctx context.Context, eventID string, actor Actor) ([]*EventModerationHistory, error)
	ListApplicationHistory(ctx context.Context, applicationID string, actor Actor) ([]*ApplicationHistory, error)
}
