package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type roomRepository struct {
	q DBTX
}

// NewRoomRepository returns a RoomRepository running against q.
func NewRoomRepository(q DBTX) domain.RoomRepository {
	return &roomRepository{q: q}
}

const roomColumns = `id, name, capacity, location, equipment, is_available, created_at, updated_at`

func scanRoom(row rowScanner) (*domain.Room, error) {
	r := &domain.Room{}
	var equipment []byte
	err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Location, &equipment, &r.IsAvailable, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(equipment) > 0 {
		if err := json.Unmarshal(equipment, &r.Equipment); err != nil {
			return nil, fmt.Errorf("decode equipment: %w", err)
		}
	}
	return r, nil
}

func equipmentArg(equipment map[string]any) ([]byte, error) {
	if equipment == nil {
		equipment = map[string]any{}
	}
	b, err := json.Marshal(equipment)
	if err != nil {
		return nil, fmt.Errorf("encode equipment: %w", err)
	}
	return b, nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	equipment, err := equipmentArg(room.Equipment)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO rooms (id, name, capacity, location, equipment, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.q.ExecContext(ctx, query,
		room.ID, room.Name, room.Capacity, room.Location, equipment, room.IsAvailable, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	room, err := scanRoom(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	room, err := scanRoom(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) GetByName(ctx context.Context, name string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE name = $1`
	room, err := scanRoom(r.q.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY name ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	equipment, err := equipmentArg(room.Equipment)
	if err != nil {
		return err
	}
	query := `
		UPDATE rooms SET name = $2, capacity = $3, location = $4, equipment = $5,
			is_available = $6, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.q.ExecContext(ctx, query,
		room.ID, room.Name, room.Capacity, room.Location, equipment, room.IsAvailable,
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *roomRepository) SetAvailable(ctx context.Context, id string, available bool) (*domain.Room, error) {
	query := `
		UPDATE rooms SET is_available = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + roomColumns
	room, err := scanRoom(r.q.QueryRowContext(ctx, query, id, available))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set room availability: %w", err)
	}
	return room, nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rooms WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
