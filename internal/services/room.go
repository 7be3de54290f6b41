package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type roomService struct {
	store          domain.Store
	contextTimeout time.Duration
}

// NewRoomService creates the room registry service.
func NewRoomService(store domain.Store, timeout time.Duration) domain.RoomService {
	return &roomService{
		store:          store,
		contextTimeout: timeout,
	}
}

func requireAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: room management requires admin", domain.ErrForbidden)
	}
	return nil
}

func (s *roomService) CreateRoom(ctx context.Context, room *domain.Room, actor domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return fmt.Errorf("%w: room name is required", domain.ErrInvalidInput)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if _, err := s.store.Rooms().GetByName(ctx, room.Name); err == nil {
		return fmt.Errorf("%w: room %q already exists", domain.ErrEntityConflict, room.Name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get room by name: %w", err)
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	if err := s.store.Rooms().Create(ctx, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	room, err := s.store.Rooms().GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rooms, err := s.store.Rooms().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}
	return rooms, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, room *domain.Room, actor domain.Actor) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if room.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if err := s.store.Rooms().Update(ctx, room); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	updated, err := s.store.Rooms().GetByID(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return updated, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, roomID string, actor domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.Rooms().Delete(ctx, roomID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

func (s *roomService) MarkAvailable(ctx context.Context, roomID string, available bool, actor domain.Actor) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	room, err := s.store.Rooms().SetAvailable(ctx, roomID, available)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set room availability: %w", err)
	}
	return room, nil
}

func (s *roomService) IsRoomFree(ctx context.Context, roomID string, date time.Time, start, end, excludeEventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidClockTime(start) || !domain.ValidClockTime(end) || start >= end {
		return false, fmt.Errorf("%w: invalid interval", domain.ErrInvalidInput)
	}
	if _, err := s.store.Rooms().GetByID(ctx, roomID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get room: %w", err)
	}
	conflicts, err := s.store.Events().ListRoomConflicts(ctx, roomID, date, start, end, excludeEventID)
	if err != nil {
		return false, fmt.Errorf("list room conflicts: %w", err)
	}
	return len(conflicts) == 0, nil
}
