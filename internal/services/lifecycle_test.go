package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusevents/internal/domain"
)

const testTimeout = 5 * time.Second

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
}

func yesterday() time.Time {
	return time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
}

func seedRoom(store *memStore, id string) *domain.Room {
	room := &domain.Room{ID: id, Name: "Room " + id, Capacity: 30, IsAvailable: true}
	store.rooms[id] = room
	return room
}

func seedEvent(store *memStore, id string, status domain.EventStatus, mutate func(*domain.Event)) *domain.Event {
	ev := &domain.Event{
		ID:        id,
		Title:     "Event " + id,
		EventDate: tomorrow(),
		StartTime: "10:00",
		EndTime:   "12:00",
		Status:    status,
		CreatorID: "creator-1",
		CuratorID: "curator-1",
		RoomID:    strPtr("room-1"),
	}
	if mutate != nil {
		mutate(ev)
	}
	store.events[id] = ev
	return ev
}

func TestLifecycleService_CreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   *domain.Event
		actor   domain.Actor
		wantErr error
	}{
		{
			name: "draft with room",
			event: &domain.Event{
				Title:     "Go meetup",
				EventDate: tomorrow(),
				StartTime: "18:00",
				EndTime:   "20:00",
				RoomID:    strPtr("room-1"),
			},
			actor: domain.Actor{UserID: "u1", Role: domain.RoleStudent},
		},
		{
			name: "draft with external location",
			event: &domain.Event{
				Title:            "City run",
				EventDate:        tomorrow(),
				StartTime:        "08:00",
				EndTime:          "09:30",
				ExternalLocation: strPtr("Central park"),
			},
			actor: domain.Actor{UserID: "u1", Role: domain.RoleStudent},
		},
		{
			name: "missing title",
			event: &domain.Event{
				EventDate: tomorrow(),
				StartTime: "18:00",
				EndTime:   "20:00",
				RoomID:    strPtr("room-1"),
			},
			actor:   domain.Actor{UserID: "u1", Role: domain.RoleStudent},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "start not before end",
			event: &domain.Event{
				Title:     "Backwards",
				EventDate: tomorrow(),
				StartTime: "20:00",
				EndTime:   "18:00",
				RoomID:    strPtr("room-1"),
			},
			actor:   domain.Actor{UserID: "u1", Role: domain.RoleStudent},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "both room and external location",
			event: &domain.Event{
				Title:            "Confused",
				EventDate:        tomorrow(),
				StartTime:        "18:00",
				EndTime:          "20:00",
				RoomID:           strPtr("room-1"),
				ExternalLocation: strPtr("Elsewhere"),
			},
			actor:   domain.Actor{UserID: "u1", Role: domain.RoleStudent},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown room",
			event: &domain.Event{
				Title:     "Ghost room",
				EventDate: tomorrow(),
				StartTime: "18:00",
				EndTime:   "20:00",
				RoomID:    strPtr("room-404"),
			},
			actor:   domain.Actor{UserID: "u1", Role: domain.RoleStudent},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "non-positive capacity",
			event: &domain.Event{
				Title:           "Zero seats",
				EventDate:       tomorrow(),
				StartTime:       "18:00",
				EndTime:         "20:00",
				RoomID:          strPtr("room-1"),
				MaxParticipants: intPtr(0),
			},
			actor:   domain.Actor{UserID: "u1", Role: domain.RoleStudent},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seedRoom(store, "room-1")
			svc := NewEventService(store, store, testTimeout)

			err := svc.CreateEvent(context.Background(), tt.event, tt.actor)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.event.Status != domain.EventDraft {
				t.Fatalf("expected draft status, got %s", tt.event.Status)
			}
			if tt.event.CreatorID != tt.actor.UserID {
				t.Fatalf("creator should be the actor, got %s", tt.event.CreatorID)
			}
			if tt.event.CuratorID != tt.actor.UserID {
				t.Fatalf("curator should default to the creator, got %s", tt.event.CuratorID)
			}
			if tt.event.EventType != domain.EventTypeCommunity {
				t.Fatalf("event type should default to community, got %s", tt.event.EventType)
			}
		})
	}
}

func TestLifecycleService_Transition_Edges(t *testing.T) {
	creator := domain.Actor{UserID: "creator-1", Role: domain.RoleStudent}
	curator := domain.Actor{UserID: "curator-1", Role: domain.RoleCurator}
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	stranger := domain.Actor{UserID: "someone", Role: domain.RoleStudent}

	tests := []struct {
		name    string
		from    domain.EventStatus
		target  domain.EventStatus
		actor   domain.Actor
		comment string
		wantErr error
	}{
		{name: "creator submits draft", from: domain.EventDraft, target: domain.EventPending, actor: creator},
		{name: "admin cannot submit another creator's draft", from: domain.EventDraft, target: domain.EventPending, actor: admin, wantErr: domain.ErrForbidden},
		{name: "stranger cannot submit draft", from: domain.EventDraft, target: domain.EventPending, actor: stranger, wantErr: domain.ErrForbidden},
		{name: "curator approves pending", from: domain.EventPending, target: domain.EventApproved, actor: curator},
		{name: "student cannot approve", from: domain.EventPending, target: domain.EventApproved, actor: creator, wantErr: domain.ErrForbidden},
		{name: "curator rejects with comment", from: domain.EventPending, target: domain.EventRejected, actor: curator, comment: "room mismatch"},
		{name: "rejection requires comment", from: domain.EventPending, target: domain.EventRejected, actor: curator, wantErr: domain.ErrInvalidState},
		{name: "creator cancels approved", from: domain.EventApproved, target: domain.EventCancelled, actor: creator},
		{name: "stranger cannot cancel", from: domain.EventApproved, target: domain.EventCancelled, actor: stranger, wantErr: domain.ErrForbidden},
		{name: "draft cannot be approved directly", from: domain.EventDraft, target: domain.EventApproved, actor: curator, wantErr: domain.ErrInvalidState},
		{name: "rejected is terminal", from: domain.EventRejected, target: domain.EventPending, actor: creator, wantErr: domain.ErrInvalidState},
		{name: "cancelled is terminal", from: domain.EventCancelled, target: domain.EventApproved, actor: admin, wantErr: domain.ErrInvalidState},
		{name: "completed is terminal", from: domain.EventCompleted, target: domain.EventCancelled, actor: admin, wantErr: domain.ErrInvalidState},
		{name: "only the system completes", from: domain.EventApproved, target: domain.EventCompleted, actor: admin, wantErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seedRoom(store, "room-1")
			seedEvent(store, "e1", tt.from, nil)
			svc := NewEventService(store, store, testTimeout)

			updated, _, err := svc.Transition(context.Background(), "e1", tt.target, tt.actor, tt.comment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if store.events["e1"].Status != tt.from {
					t.Fatalf("status changed on failed transition: %s", store.events["e1"].Status)
				}
				if len(store.eventHistory) != 0 {
					t.Fatalf("history written for failed transition")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Status != tt.target {
				t.Fatalf("expected %s, got %s", tt.target, updated.Status)
			}
			if len(store.eventHistory) != 1 {
				t.Fatalf("expected exactly one history row, got %d", len(store.eventHistory))
			}
			entry := store.eventHistory[0]
			if entry.PreviousStatus != tt.from || entry.NewStatus != tt.target || entry.ActorID != tt.actor.UserID {
				t.Fatalf("bad history row: %+v", entry)
			}
		})
	}
}

func TestLifecycleService_Approve_BookingConflict(t *testing.T) {
	curator := domain.Actor{UserID: "curator-1", Role: domain.RoleCurator}

	tests := []struct {
		name          string
		otherStatus   domain.EventStatus
		otherStart    string
		otherEnd      string
		otherRoom     string
		roomAvailable bool
		wantErr       error
	}{
		{name: "overlap with approved event", otherStatus: domain.EventApproved, otherStart: "11:00", otherEnd: "13:00", otherRoom: "room-1", roomAvailable: true, wantErr: domain.ErrBookingConflict},
		{name: "overlap with pending event", otherStatus: domain.EventPending, otherStart: "09:00", otherEnd: "10:30", otherRoom: "room-1", roomAvailable: true, wantErr: domain.ErrBookingConflict},
		{name: "back to back does not conflict", otherStatus: domain.EventApproved, otherStart: "12:00", otherEnd: "14:00", otherRoom: "room-1", roomAvailable: true},
		{name: "draft in same slot does not conflict", otherStatus: domain.EventDraft, otherStart: "10:00", otherEnd: "12:00", otherRoom: "room-1", roomAvailable: true},
		{name: "other room does not conflict", otherStatus: domain.EventApproved, otherStart: "10:00", otherEnd: "12:00", otherRoom: "room-2", roomAvailable: true},
		{name: "unavailable room blocks approval", otherStatus: domain.EventDraft, otherStart: "10:00", otherEnd: "12:00", otherRoom: "room-2", roomAvailable: false, wantErr: domain.ErrBookingConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			room := seedRoom(store, "room-1")
			room.IsAvailable = tt.roomAvailable
			seedRoom(store, "room-2")
			seedEvent(store, "e1", domain.EventPending, nil)
			seedEvent(store, "other", tt.otherStatus, func(ev *domain.Event) {
				ev.StartTime = tt.otherStart
				ev.EndTime = tt.otherEnd
				ev.RoomID = strPtr(tt.otherRoom)
			})
			svc := NewEventService(store, store, testTimeout)

			_, _, err := svc.Transition(context.Background(), "e1", domain.EventApproved, curator, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store.events["e1"].Status != domain.EventApproved {
				t.Fatalf("event not approved: %s", store.events["e1"].Status)
			}
		})
	}
}

func TestLifecycleService_Approve_ExternalVenueSkipsBookingCheck(t *testing.T) {
	store := newMemStore()
	seedEvent(store, "e1", domain.EventPending, func(ev *domain.Event) {
		ev.RoomID = nil
		ev.ExternalLocation = strPtr("Town hall")
		ev.IsExternalVenue = true
	})
	svc := NewEventService(store, store, testTimeout)

	_, _, err := svc.Transition(context.Background(), "e1", domain.EventApproved,
		domain.Actor{UserID: "curator-1", Role: domain.RoleCurator}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLifecycleService_Cancel(t *testing.T) {
	creator := domain.Actor{UserID: "creator-1", Role: domain.RoleStudent}

	t.Run("withdraws approved applications and resets count", func(t *testing.T) {
		store := newMemStore()
		seedRoom(store, "room-1")
		seedEvent(store, "e1", domain.EventApproved, func(ev *domain.Event) {
			ev.RegisteredCount = 2
		})
		store.applications["a1"] = &domain.EventApplication{ID: "a1", EventID: "e1", ApplicantID: "s1", Status: domain.ApplicationApproved}
		store.applications["a2"] = &domain.EventApplication{ID: "a2", EventID: "e1", ApplicantID: "s2", Status: domain.ApplicationApproved}
		store.applications["a3"] = &domain.EventApplication{ID: "a3", EventID: "e1", ApplicantID: "s3", Status: domain.ApplicationRejected}
		svc := NewEventService(store, store, testTimeout)

		updated, intents, err := svc.Transition(context.Background(), "e1", domain.EventCancelled, creator, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.RegisteredCount != 0 || store.events["e1"].RegisteredCount != 0 {
			t.Fatalf("registered count not reset")
		}
		if store.applications["a1"].Status != domain.ApplicationWithdrawn ||
			store.applications["a2"].Status != domain.ApplicationWithdrawn {
			t.Fatalf("approved applications not withdrawn")
		}
		if store.applications["a3"].Status != domain.ApplicationRejected {
			t.Fatalf("rejected application should be untouched")
		}
		// One event row plus one withdrawal row per approved application.
		if len(store.eventHistory) != 1 || len(store.appHistory) != 2 {
			t.Fatalf("unexpected history: events=%d apps=%d", len(store.eventHistory), len(store.appHistory))
		}
		recipients := map[string]bool{}
		for _, in := range intents {
			recipients[in.UserID] = true
		}
		if !recipients["s1"] || !recipients["s2"] {
			t.Fatalf("withdrawn applicants not notified: %v", intents)
		}
		if recipients["creator-1"] {
			t.Fatalf("the acting creator should not be notified")
		}
	})

	t.Run("rejected on the event day", func(t *testing.T) {
		store := newMemStore()
		seedRoom(store, "room-1")
		seedEvent(store, "e1", domain.EventApproved, func(ev *domain.Event) {
			ev.EventDate = time.Now()
		})
		svc := NewEventService(store, store, testTimeout)

		_, _, err := svc.Transition(context.Background(), "e1", domain.EventCancelled, creator, "")
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestLifecycleService_CompleteElapsedEvents(t *testing.T) {
	store := newMemStore()
	seedRoom(store, "room-1")
	seedEvent(store, "past", domain.EventApproved, func(ev *domain.Event) {
		ev.EventDate = yesterday()
	})
	seedEvent(store, "future", domain.EventApproved, func(ev *domain.Event) {
		ev.EventDate = tomorrow()
	})
	seedEvent(store, "past-draft", domain.EventDraft, func(ev *domain.Event) {
		ev.EventDate = yesterday()
	})
	svc := NewEventService(store, store, testTimeout)

	completed, intents, err := svc.CompleteElapsedEvents(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed != 1 {
		t.Fatalf("expected 1 completed, got %d", completed)
	}
	if store.events["past"].Status != domain.EventCompleted {
		t.Fatalf("elapsed event not completed: %s", store.events["past"].Status)
	}
	if store.events["future"].Status != domain.EventApproved {
		t.Fatalf("future event should stay approved")
	}
	if store.events["past-draft"].Status != domain.EventDraft {
		t.Fatalf("draft should be untouched")
	}
	if len(intents) == 0 {
		t.Fatalf("expected completion intents")
	}
}
