package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusevents/internal/domain"
)

type notificationService struct {
	store          domain.Store
	mailer         domain.Mailer
	contextTimeout time.Duration
}

// NewNotificationService creates the notification sink. It persists
// accepted intents and forwards them by email to users that have an
// address on file.
func NewNotificationService(store domain.Store, mailer domain.Mailer, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		store:          store,
		mailer:         mailer,
		contextTimeout: timeout,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, intents []domain.NotificationIntent) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	for _, intent := range intents {
		n := &domain.Notification{
			UserID:    intent.UserID,
			Message:   intent.Message,
			CreatedAt: now,
		}
		if err := s.store.Notifications().Create(ctx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		s.emailBestEffort(ctx, intent)
	}
	return nil
}

// emailBestEffort forwards a notification by email. Failures are logged,
// never propagated: the persisted notification is the source of truth.
func (s *notificationService) emailBestEffort(ctx context.Context, intent domain.NotificationIntent) {
	user, err := s.store.Users().GetByID(ctx, intent.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("notification email skipped: user lookup failed", "user_id", intent.UserID, "error", err)
		}
		return
	}
	if user.Email == nil || *user.Email == "" {
		return
	}
	html := fmt.Sprintf("<p>%s</p>", intent.Message)
	if err := s.mailer.Send(*user.Email, "Campus Events notification", html, intent.Message); err != nil {
		slog.Warn("notification email failed", "user_id", intent.UserID, "error", err)
	}
}

func (s *notificationService) ListMyNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	notifications, err := s.store.Notifications().ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.store.Notifications().MarkRead(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}
