package domain

import (
	"context"
	"time"
)

// Room represents a bookable physical space on campus.
// swagger:model Room
type Room struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Capacity    int            `json:"capacity"`
	Location    string         `json:"location"`
	Equipment   map[string]any `json:"equipment"`
	IsAvailable bool           `json:"is_available"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewRoom returns a new Room with the given fields. ID is set by the service on create.
func NewRoom(name string, capacity int, location string, equipment map[string]any, isAvailable bool, createdAt, updatedAt time.Time) *Room {
	return &Room{
		Name:        name,
		Capacity:    capacity,
		Location:    location,
		Equipment:   equipment,
		IsAvailable: isAvailable,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// RoomRepository defines the interface for room storage.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	// GetByIDForUpdate locks the room row for the rest of the transaction.
	// Booking decisions for a room must run under this lock so that two
	// concurrent approvals cannot both observe a free interval.
	GetByIDForUpdate(ctx context.Context, id string) (*Room, error)
	GetByName(ctx context.Context, name string) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Update(ctx context.Context, room *Room) error
	SetAvailable(ctx context.Context, id string, available bool) (*Room, error)
	Delete(ctx context.Context, id string) error
}

// RoomService defines room registry operations. Mutations require the
// admin role; availability queries are open to any authenticated actor.
type RoomService interface {
	CreateRoom(ctx context.Context, room *Room, actor Actor) error
	GetRoom(ctx context.Context, roomID string) (*Room, error)
	ListRooms(ctx context.Context) ([]*Room, error)
	UpdateRoom(ctx context.Context, room *Room, actor Actor) (*Room, error)
	DeleteRoom(ctx context.Context, roomID string, actor Actor) error
	// MarkAvailable toggles is_available. Idempotent; existing bookings are
	// unaffected.
	MarkAvailable(ctx context.Context, roomID string, available bool, actor Actor) (*Room, error)
	// IsRoomFree reports whether no pending or approved event occupies the
	// room for [start, end) on date. excludeEventID may name an event to
	// ignore (for updates to an existing booking).
	IsRoomFree(ctx context.Context, roomID string, date time.Time, start, end, excludeEventID string) (bool, error)
}
