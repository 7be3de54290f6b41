package domain

import (
	"context"
	"time"
)

// ApplicationStatus is the lifecycle state of an event application.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// EventApplication represents a user's request to attend an event.
// swagger:model EventApplication
type EventApplication struct {
	ID          string            `json:"id"`
	EventID     string            `json:"event_id"`
	ApplicantID string            `json:"applicant_id"`
	Status      ApplicationStatus `json:"status"`
	Motivation  string            `json:"motivation"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewEventApplication creates an application in the submitted state. ID is
// set by the service on create.
func NewEventApplication(eventID, applicantID, motivation string, createdAt time.Time) *EventApplication {
	return &EventApplication{
		EventID:     eventID,
		ApplicantID: applicantID,
		Status:      ApplicationSubmitted,
		Motivation:  motivation,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// ApplicationRepository defines storage operations for event applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *EventApplication) error
	GetByID(ctx context.Context, id string) (*EventApplication, error)
	// GetByIDForUpdate locks the application row for the rest of the
	// transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*EventApplication, error)
	// GetActiveByEventAndApplicant returns the applicant's non-withdrawn
	// application for the event, or ErrNotFound.
	GetActiveByEventAndApplicant(ctx context.Context, eventID, applicantID string) (*EventApplication, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventApplication, error)
	ListByApplicantID(ctx context.Context, applicantID string) ([]*EventApplication, error)
	ListByEventAndStatus(ctx context.Context, eventID string, status ApplicationStatus) ([]*EventApplication, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus, updatedAt time.Time) error
}

// AdmissionService manages applications against an event's capacity.
type AdmissionService interface {
	// SubmitApplication creates an application for an approved event. When
	// the event does not require curator approval the application is
	// auto-approved, subject to capacity.
	SubmitApplication(ctx context.Context, eventID, applicantID, motivation string) (*EventApplication, []NotificationIntent, error)
	// DecideApplication approves or rejects a submitted application on an
	// event that requires curator approval.
	DecideApplication(ctx context.Context, applicationID string, decision ApplicationStatus, actor Actor, comment string) (*EventApplication, []NotificationIntent, error)
	// WithdrawApplication withdraws the application. Idempotent: withdrawing
	// an already-withdrawn application succeeds without a new history row.
	WithdrawApplication(ctx context.Context, applicationID string, actor Actor) (*EventApplication, error)
	ListEventApplications(ctx context.Context, eventID string, actor Actor) ([]*EventApplication, error)
	ListMyApplications(ctx context.Context, applicantID string) ([]*EventApplication, error)
}
