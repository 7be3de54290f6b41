package domain

import (
	"context"
	"time"
)

// NotificationIntent describes a notification the engine wants sent. The
// engine only emits intents; delivery happens through NotificationService.
type NotificationIntent struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// Notification is a delivered notification row owned by the sink.
// swagger:model Notification
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationRepository defines storage operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string) ([]*Notification, error)
	// MarkRead flips is_read for the user's notification. Returns
	// ErrNotFound when the row does not exist or belongs to another user.
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
}

// Mailer sends a single email. Implemented by the SES adapter.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// NotificationService is the sink accepting emitted intents for delivery.
type NotificationService interface {
	// Dispatch persists each intent as a notification and best-effort
	// emails users that have an address. Persistence failures are returned;
	// email failures are logged only.
	Dispatch(ctx context.Context, intents []NotificationIntent) error
	ListMyNotifications(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*Notification, error)
}
