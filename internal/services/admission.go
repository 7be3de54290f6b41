package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type admissionService struct {
	store          domain.Store
	tx             domain.Transactor
	contextTimeout time.Duration
}

// NewAdmissionService creates the admission controller owning application
// status transitions and the event's registered_count.
func NewAdmissionService(store domain.Store, tx domain.Transactor, timeout time.Duration) domain.AdmissionService {
	return &admissionService{
		store:          store,
		tx:             tx,
		contextTimeout: timeout,
	}
}

func (s *admissionService) SubmitApplication(ctx context.Context, eventID, applicantID, motivation string) (*domain.EventApplication, []domain.NotificationIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var created *domain.EventApplication
	var intents []domain.NotificationIntent

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st domain.Store) error {
		// The event row lock serializes capacity checks for this event.
		event, err := st.Events().GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.Status != domain.EventApproved {
			return fmt.Errorf("%w: applications are only accepted for approved events (event is %s)", domain.ErrInvalidState, event.Status)
		}
		if _, err := st.Applications().GetActiveByEventAndApplicant(ctx, eventID, applicantID); err == nil {
			return fmt.Errorf("%w: applicant already has an active application for this event", domain.ErrEntityConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get active application: %w", err)
		}

		now := time.Now()
		app := domain.NewEventApplication(eventID, applicantID, motivation, now)

		if !event.NeedApproveCandidates && event.Full() {
			return fmt.Errorf("%w: event full", domain.ErrEntityConflict)
		}

		if err := st.Applications().Create(ctx, app); err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		if err := st.History().CreateApplicationEntry(ctx, &domain.ApplicationHistory{
			ApplicationID:  app.ID,
			PreviousStatus: "",
			NewStatus:      domain.ApplicationSubmitted,
			ActorID:        applicantID,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("record application submission: %w", err)
		}

		if event.NeedApproveCandidates {
			created = app
			intents = ApplicationTransitionIntents(event, app, domain.ApplicationSubmitted, domain.Actor{UserID: applicantID, Role: domain.RoleStudent})
			return nil
		}

		// Auto-admission: approve immediately, still within this tx.
		if err := st.Applications().UpdateStatus(ctx, app.ID, domain.ApplicationApproved, now); err != nil {
			return fmt.Errorf("approve application: %w", err)
		}
		if _, err := st.Events().IncrementRegisteredCount(ctx, eventID, 1); err != nil {
			return fmt.Errorf("increment registered_count: %w", err)
		}
		if err := st.History().CreateApplicationEntry(ctx, &domain.ApplicationHistory{
			ApplicationID:  app.ID,
			PreviousStatus: domain.ApplicationSubmitted,
			NewStatus:      domain.ApplicationApproved,
			ActorID:        applicantID,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("record application approval: %w", err)
		}
		app.Status = domain.ApplicationApproved
		app.UpdatedAt = now
		created = app
		intents = ApplicationTransitionIntents(event, app, domain.ApplicationApproved, domain.SystemActor)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, intents, nil
}

func (s *admissionService) DecideApplication(ctx context.Context, applicationID string, decision domain.ApplicationStatus, actor domain.Actor, comment string) (*domain.EventApplication, []domain.NotificationIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if decision != domain.ApplicationApproved && decision != domain.ApplicationRejected {
		return nil, nil, fmt.Errorf("%w: decision must be approved or rejected", domain.ErrInvalidInput)
	}
	if actor.Role != domain.RoleCurator && actor.Role != domain.RoleAdmin {
		return nil, nil, fmt.Errorf("%w: deciding applications requires curator or admin", domain.ErrForbidden)
	}

	var decided *domain.EventApplication
	var intents []domain.NotificationIntent

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st domain.Store) error {
		app, err := st.Applications().GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get application: %w", err)
		}
		event, err := st.Events().GetByIDForUpdate(ctx, app.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.Status != domain.EventApproved {
			return fmt.Errorf("%w: event is %s, decisions are only valid on approved events", domain.ErrInvalidState, event.Status)
		}
		if !event.NeedApproveCandidates {
			return fmt.Errorf("%w: event admits applicants automatically", domain.ErrInvalidState)
		}
		if app.Status != domain.ApplicationSubmitted {
			return fmt.Errorf("%w: application is %s, only submitted applications can be decided", domain.ErrInvalidState, app.Status)
		}

		now := time.Now()
		if decision == domain.ApplicationApproved {
			if event.Full() {
				return fmt.Errorf("%w: event full", domain.ErrEntityConflict)
			}
			if _, err := st.Events().IncrementRegisteredCount(ctx, event.ID, 1); err != nil {
				return fmt.Errorf("increment registered_count: %w", err)
			}
		}
		if err := st.Applications().UpdateStatus(ctx, app.ID, decision, now); err != nil {
			return fmt.Errorf("update application status: %w", err)
		}
		if err := st.History().CreateApplicationEntry(ctx, &domain.ApplicationHistory{
			ApplicationID:  app.ID,
			Comment:        comment,
			PreviousStatus: app.Status,
			NewStatus:      decision,
			ActorID:        actor.UserID,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("record application decision: %w", err)
		}
		app.Status = decision
		app.UpdatedAt = now
		decided = app
		intents = ApplicationTransitionIntents(event, app, decision, actor)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return decided, intents, nil
}

func (s *admissionService) WithdrawApplication(ctx context.Context, applicationID string, actor domain.Actor) (*domain.EventApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var withdrawn *domain.EventApplication

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st domain.Store) error {
		app, err := st.Applications().GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get application: %w", err)
		}
		if actor.UserID != app.ApplicantID && actor.Role != domain.RoleCurator && actor.Role != domain.RoleAdmin {
			return fmt.Errorf("%w: only the applicant, a curator or an admin may withdraw", domain.ErrForbidden)
		}
		if app.Status == domain.ApplicationWithdrawn {
			// Idempotent: success, no new history row.
			withdrawn = app
			return nil
		}

		event, err := st.Events().GetByIDForUpdate(ctx, app.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.Status == domain.EventCompleted {
			return fmt.Errorf("%w: applications of a completed event cannot change", domain.ErrInvalidState)
		}

		now := time.Now()
		if app.Status == domain.ApplicationApproved {
			if _, err := st.Events().IncrementRegisteredCount(ctx, event.ID, -1); err != nil {
				return fmt.Errorf("decrement registered_count: %w", err)
			}
		}
		if err := st.Applications().UpdateStatus(ctx, app.ID, domain.ApplicationWithdrawn, now); err != nil {
			return fmt.Errorf("update application status: %w", err)
		}
		if err := st.History().CreateApplicationEntry(ctx, &domain.ApplicationHistory{
			ApplicationID:  app.ID,
			PreviousStatus: app.Status,
			NewStatus:      domain.ApplicationWithdrawn,
			ActorID:        actor.UserID,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("record application withdrawal: %w", err)
		}
		app.Status = domain.ApplicationWithdrawn
		app.UpdatedAt = now
		withdrawn = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdrawn, nil
}

func (s *admissionService) ListEventApplications(ctx context.Context, eventID string, actor domain.Actor) ([]*domain.EventApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if actor.UserID != event.CreatorID && actor.Role != domain.RoleCurator && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	apps, err := s.store.Applications().ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.EventApplication{}
	}
	return apps, nil
}

func (s *admissionService) ListMyApplications(ctx context.Context, applicantID string) ([]*domain.EventApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	apps, err := s.store.Applications().ListByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.EventApplication{}
	}
	return apps, nil
}
