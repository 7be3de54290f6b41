package services

import (
	"strings"
	"testing"

	"campusevents/internal/domain"
)

func TestEventTransitionIntents(t *testing.T) {
	event := &domain.Event{
		ID:        "e1",
		Title:     "Robotics night",
		CreatorID: "creator-1",
		CuratorID: "curator-1",
	}

	tests := []struct {
		name           string
		status         domain.EventStatus
		actor          domain.Actor
		comment        string
		withdrawn      []string
		wantRecipients []string
	}{
		{
			name:           "submission notifies the curator",
			status:         domain.EventPending,
			actor:          domain.Actor{UserID: "creator-1", Role: domain.RoleStudent},
			wantRecipients: []string{"curator-1"},
		},
		{
			name:           "approval notifies creator, not the acting curator",
			status:         domain.EventApproved,
			actor:          domain.Actor{UserID: "curator-1", Role: domain.RoleCurator},
			wantRecipients: []string{"creator-1"},
		},
		{
			name:           "rejection notifies creator",
			status:         domain.EventRejected,
			actor:          domain.Actor{UserID: "curator-1", Role: domain.RoleCurator},
			comment:        "double booking",
			wantRecipients: []string{"creator-1"},
		},
		{
			name:           "cancellation reaches withdrawn applicants once each",
			status:         domain.EventCancelled,
			actor:          domain.Actor{UserID: "curator-1", Role: domain.RoleCurator},
			withdrawn:      []string{"s1", "s2", "s1"},
			wantRecipients: []string{"creator-1", "s1", "s2"},
		},
		{
			name:           "completion by the system notifies creator",
			status:         domain.EventCompleted,
			actor:          domain.SystemActor,
			wantRecipients: []string{"creator-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := *event
			ev.Status = tt.status
			intents := EventTransitionIntents(&ev, domain.EventPending, tt.actor, tt.comment, tt.withdrawn)

			if len(intents) != len(tt.wantRecipients) {
				t.Fatalf("expected %d intents, got %d: %v", len(tt.wantRecipients), len(intents), intents)
			}
			got := map[string]bool{}
			for _, in := range intents {
				if in.Message == "" {
					t.Fatalf("empty message in intent for %s", in.UserID)
				}
				if got[in.UserID] {
					t.Fatalf("duplicate recipient %s", in.UserID)
				}
				got[in.UserID] = true
			}
			for _, want := range tt.wantRecipients {
				if !got[want] {
					t.Fatalf("missing recipient %s in %v", want, intents)
				}
			}
		})
	}
}

func TestEventTransitionIntents_RejectionCarriesComment(t *testing.T) {
	event := &domain.Event{ID: "e1", Title: "Chess", CreatorID: "creator-1", CuratorID: "curator-1", Status: domain.EventRejected}
	intents := EventTransitionIntents(event, domain.EventPending,
		domain.Actor{UserID: "curator-1", Role: domain.RoleCurator}, "room too small", nil)
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	if !strings.Contains(intents[0].Message, "room too small") {
		t.Fatalf("rejection comment missing from message: %q", intents[0].Message)
	}
}

func TestApplicationTransitionIntents(t *testing.T) {
	event := &domain.Event{ID: "e1", Title: "Robotics night", CreatorID: "creator-1", CuratorID: "curator-1"}
	app := &domain.EventApplication{ID: "a1", EventID: "e1", ApplicantID: "s1"}

	tests := []struct {
		name           string
		status         domain.ApplicationStatus
		actor          domain.Actor
		wantRecipients []string
	}{
		{
			name:           "submission notifies the curator",
			status:         domain.ApplicationSubmitted,
			actor:          domain.Actor{UserID: "s1", Role: domain.RoleStudent},
			wantRecipients: []string{"curator-1"},
		},
		{
			name:           "approval notifies the applicant",
			status:         domain.ApplicationApproved,
			actor:          domain.Actor{UserID: "curator-1", Role: domain.RoleCurator},
			wantRecipients: []string{"s1"},
		},
		{
			name:           "auto-approval by the system still notifies the applicant",
			status:         domain.ApplicationApproved,
			actor:          domain.SystemActor,
			wantRecipients: []string{"s1"},
		},
		{
			name:           "rejection notifies the applicant",
			status:         domain.ApplicationRejected,
			actor:          domain.Actor{UserID: "curator-1", Role: domain.RoleCurator},
			wantRecipients: []string{"s1"},
		},
		{
			name:           "withdrawal produces no intents",
			status:         domain.ApplicationWithdrawn,
			actor:          domain.Actor{UserID: "s1", Role: domain.RoleStudent},
			wantRecipients: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intents := ApplicationTransitionIntents(event, app, tt.status, tt.actor)
			if len(intents) != len(tt.wantRecipients) {
				t.Fatalf("expected %d intents, got %d: %v", len(tt.wantRecipients), len(intents), intents)
			}
			for i, want := range tt.wantRecipients {
				if intents[i].UserID != want {
					t.Fatalf("expected recipient %s, got %s", want, intents[i].UserID)
				}
			}
		})
	}
}
