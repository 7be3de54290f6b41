package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type lifecycleService struct {
	store          domain.Store
	tx             domain.Transactor
	contextTimeout time.Duration
}

// NewEventService creates the lifecycle service owning event status
// transitions.
func NewEventService(store domain.Store, tx domain.Transactor, timeout time.Duration) domain.EventService {
	return &lifecycleService{
		store:          store,
		tx:             tx,
		contextTimeout: timeout,
	}
}

func (s *lifecycleService) CreateEvent(ctx context.Context, event *domain.Event, actor domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.MaxParticipants != nil && *event.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", domain.ErrInvalidInput)
	}
	if err := event.ValidateSchedule(); err != nil {
		return fmt.Errorf("%w: invalid schedule or booking target", domain.ErrInvalidInput)
	}
	if event.RoomID != nil {
		if _, err := s.store.Rooms().GetByID(ctx, *event.RoomID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: room %s", domain.ErrNotFound, *event.RoomID)
			}
			return fmt.Errorf("get room: %w", err)
		}
	}

	now := time.Now()
	event.CreatorID = actor.UserID
	if event.CuratorID == "" {
		event.CuratorID = actor.UserID
	}
	if event.EventType == "" {
		event.EventType = domain.EventTypeCommunity
	}
	event.IsExternalVenue = event.ExternalLocation != nil && *event.ExternalLocation != ""
	event.Status = domain.EventDraft
	event.RegisteredCount = 0
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.store.Events().Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *lifecycleService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *lifecycleService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.store.Events().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// checkTransition validates that the edge exists and the actor may take
// it. Admin may act wherever curator may; submitting a draft stays with
// the creator alone.
func checkTransition(event *domain.Event, target domain.EventStatus, actor domain.Actor) error {
	isAdmin := actor.Role == domain.RoleAdmin
	isCreator := actor.UserID == event.CreatorID
	isCurator := actor.Role == domain.RoleCurator

	switch {
	case event.Status == domain.EventDraft && target == domain.EventPending:
		if !isCreator {
			return fmt.Errorf("%w: only the creator may submit a draft", domain.ErrForbidden)
		}
	case event.Status == domain.EventPending && target == domain.EventApproved,
		event.Status == domain.EventPending && target == domain.EventRejected:
		if !isCurator && !isAdmin {
			return fmt.Errorf("%w: moderation requires curator or admin", domain.ErrForbidden)
		}
	case event.Status == domain.EventApproved && target == domain.EventCancelled:
		if !isCreator && !isCurator && !isAdmin {
			return fmt.Errorf("%w: cancellation requires creator, curator or admin", domain.ErrForbidden)
		}
	case event.Status == domain.EventApproved && target == domain.EventCompleted:
		if actor.Role != domain.RoleSystem {
			return fmt.Errorf("%w: completion is system-driven", domain.ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", domain.ErrInvalidState, event.Status, target)
	}
	return nil
}

func (s *lifecycleService) Transition(ctx context.Context, eventID string, target domain.EventStatus, actor domain.Actor, comment string) (*domain.Event, []domain.NotificationIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var updated *domain.Event
	var intents []domain.NotificationIntent

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st domain.Store) error {
		event, err := st.Events().GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if err := checkTransition(event, target, actor); err != nil {
			return err
		}

		now := time.Now()
		var withdrawnApplicants []string

		switch target {
		case domain.EventPending:
			if err := event.ValidateSchedule(); err != nil {
				return fmt.Errorf("%w: schedule incomplete for submission", domain.ErrInvalidState)
			}
		case domain.EventApproved:
			if !event.IsExternalVenue && event.RoomID != nil {
				if err := ensureRoomFree(ctx, st, event); err != nil {
					return err
				}
			}
		case domain.EventRejected:
			if strings.TrimSpace(comment) == "" {
				return fmt.Errorf("%w: rejection requires a comment", domain.ErrInvalidState)
			}
		case domain.EventCancelled:
			if now.Format("2006-01-02") >= event.EventDate.Format("2006-01-02") {
				return fmt.Errorf("%w: cancellation is only allowed before the event date", domain.ErrInvalidState)
			}
			withdrawnApplicants, err = withdrawApprovedApplications(ctx, st, event, actor, now)
			if err != nil {
				return err
			}
		case domain.EventCompleted:
			if !event.ElapsedBy(now) {
				return fmt.Errorf("%w: event has not ended yet", domain.ErrInvalidState)
			}
		}

		if err := st.Events().UpdateStatus(ctx, eventID, target, now); err != nil {
			return fmt.Errorf("update event status: %w", err)
		}
		if err := st.History().CreateEventEntry(ctx, &domain.EventModerationHistory{
			EventID:        eventID,
			Comment:        comment,
			PreviousStatus: event.Status,
			NewStatus:      target,
			ActorID:        actor.UserID,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("record event transition: %w", err)
		}

		prev := event.Status
		event.Status = target
		event.UpdatedAt = now
		if target == domain.EventCancelled {
			event.RegisteredCount = 0
		}
		updated = event
		intents = EventTransitionIntents(event, prev, actor, comment, withdrawnApplicants)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, intents, nil
}

// ensureRoomFree runs the booking conflict check under the room row lock,
// so concurrent approvals for the same room serialize and the loser sees
// a fresh conflict.
func ensureRoomFree(ctx context.Context, st domain.Store, event *domain.Event) error {
	room, err := st.Rooms().GetByIDForUpdate(ctx, *event.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: room %s", domain.ErrNotFound, *event.RoomID)
		}
		return fmt.Errorf("lock room: %w", err)
	}
	if !room.IsAvailable {
		return fmt.Errorf("%w: room %s is not available for booking", domain.ErrBookingConflict, room.Name)
	}
	conflicts, err := st.Events().ListRoomConflicts(ctx, room.ID, event.EventDate, event.StartTime, event.EndTime, event.ID)
	if err != nil {
		return fmt.Errorf("list room conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("%w: room %s is booked %s-%s by event %q", domain.ErrBookingConflict,
			room.Name, conflicts[0].StartTime, conflicts[0].EndTime, conflicts[0].Title)
	}
	return nil
}

// withdrawApprovedApplications force-withdraws every approved application
// of a cancelled event and resets the admission counter, all within the
// surrounding transaction.
func withdrawApprovedApplications(ctx context.Context, st domain.Store, event *domain.Event, actor domain.Actor, now time.Time) ([]string, error) {
	approved, err := st.Applications().ListByEventAndStatus(ctx, event.ID, domain.ApplicationApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved applications: %w", err)
	}
	applicants := make([]string, 0, len(approved))
	for _, app := range approved {
		if err := st.Applications().UpdateStatus(ctx, app.ID, domain.ApplicationWithdrawn, now); err != nil {
			return nil, fmt.Errorf("withdraw application %s: %w", app.ID, err)
		}
		if err := st.History().CreateApplicationEntry(ctx, &domain.ApplicationHistory{
			ApplicationID:  app.ID,
			Comment:        "event cancelled",
			PreviousStatus: domain.ApplicationApproved,
			NewStatus:      domain.ApplicationWithdrawn,
			ActorID:        actor.UserID,
			CreatedAt:      now,
		}); err != nil {
			return nil, fmt.Errorf("record application withdrawal: %w", err)
		}
		applicants = append(applicants, app.ApplicantID)
	}
	if err := st.Events().ResetRegisteredCount(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("reset registered_count: %w", err)
	}
	return applicants, nil
}

func (s *lifecycleService) CompleteElapsedEvents(ctx context.Context, now time.Time) (int, []domain.NotificationIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	elapsed, err := s.store.Events().ListElapsedApproved(ctx, now, now.Format("15:04"))
	if err != nil {
		return 0, nil, fmt.Errorf("list elapsed events: %w", err)
	}

	completed := 0
	var intents []domain.NotificationIntent
	for _, event := range elapsed {
		// Re-checked under the row lock inside Transition; an event
		// cancelled between the list and the lock is skipped.
		_, transitionIntents, err := s.Transition(ctx, event.ID, domain.EventCompleted, domain.SystemActor, "")
		if err != nil {
			if errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return completed, intents, err
		}
		completed++
		intents = append(intents, transitionIntents...)
	}
	return completed, intents, nil
}
