package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type moderationService struct {
	store          domain.Store
	contextTimeout time.Duration
}

// NewModerationService creates the audit trail query service.
func NewModerationService(store domain.Store, timeout time.Duration) domain.ModerationService {
	return &moderationService{
		store:          store,
		contextTimeout: timeout,
	}
}

func requireModerator(actor domain.Actor) error {
	if actor.Role != domain.RoleCurator && actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: history access requires curator or admin", domain.ErrForbidden)
	}
	return nil
}

func (s *moderationService) ListEventHistory(ctx context.Context, eventID string, actor domain.Actor) ([]*domain.EventModerationHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	entries, err := s.store.History().ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event history: %w", err)
	}
	if entries == nil {
		entries = []*domain.EventModerationHistory{}
	}
	return entries, nil
}

func (s *moderationService) ListApplicationHistory(ctx context.Context, applicationID string, actor domain.Actor) ([]*domain.ApplicationHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	if _, err := s.store.Applications().GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	entries, err := s.store.History().ListByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list application history: %w", err)
	}
	if entries == nil {
		entries = []*domain.ApplicationHistory{}
	}
	return entries, nil
}
