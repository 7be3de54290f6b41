package services

import (
	"fmt"

	"campusevents/internal/domain"
)

// EventTransitionIntents maps an accepted event transition to the
// notifications it should produce. Pure: no I/O, no persistence. The
// actor is never among the recipients, and recipients are deduplicated.
// Transitions with no defined recipients return an empty list.
func EventTransitionIntents(event *domain.Event, prev domain.EventStatus, actor domain.Actor, comment string, withdrawnApplicants []string) []domain.NotificationIntent {
	var message string
	recipients := []string{}

	switch event.Status {
	case domain.EventPending:
		message = fmt.Sprintf("Event %q is awaiting moderation", event.Title)
		recipients = append(recipients, event.CuratorID)
	case domain.EventApproved:
		message = fmt.Sprintf("Event %q has been approved", event.Title)
		recipients = append(recipients, event.CreatorID, event.CuratorID)
	case domain.EventRejected:
		message = fmt.Sprintf("Event %q has been rejected: %s", event.Title, comment)
		recipients = append(recipients, event.CreatorID, event.CuratorID)
	case domain.EventCancelled:
		message = fmt.Sprintf("Event %q has been cancelled", event.Title)
		recipients = append(recipients, event.CreatorID)
		recipients = append(recipients, withdrawnApplicants...)
	case domain.EventCompleted:
		message = fmt.Sprintf("Event %q is completed", event.Title)
		recipients = append(recipients, event.CreatorID)
	default:
		return []domain.NotificationIntent{}
	}

	return buildIntents(recipients, actor.UserID, message)
}

// ApplicationTransitionIntents maps an accepted application transition to
// notifications. status is the application's new status.
func ApplicationTransitionIntents(event *domain.Event, app *domain.EventApplication, status domain.ApplicationStatus, actor domain.Actor) []domain.NotificationIntent {
	var message string
	recipients := []string{}

	switch status {
	case domain.ApplicationSubmitted:
		message = fmt.Sprintf("New application for event %q", event.Title)
		recipients = append(recipients, event.CuratorID)
	case domain.ApplicationApproved:
		message = fmt.Sprintf("Your application for %q has been approved", event.Title)
		recipients = append(recipients, app.ApplicantID)
	case domain.ApplicationRejected:
		message = fmt.Sprintf("Your application for %q has been rejected", event.Title)
		recipients = append(recipients, app.ApplicantID)
	default:
		return []domain.NotificationIntent{}
	}

	return buildIntents(recipients, actor.UserID, message)
}

func buildIntents(recipients []string, actorID, message string) []domain.NotificationIntent {
	seen := make(map[string]struct{})
	intents := make([]domain.NotificationIntent, 0, len(recipients))
	for _, userID := range recipients {
		if userID == "" || userID == actorID {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		intents = append(intents, domain.NotificationIntent{UserID: userID, Message: message})
	}
	return intents
}
