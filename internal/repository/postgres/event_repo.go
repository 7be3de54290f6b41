package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type eventRepository struct {
	q DBTX
}

// NewEventRepository returns an EventRepository running against q.
func NewEventRepository(q DBTX) domain.EventRepository {
	return &eventRepository{q: q}
}

const eventColumns = `id, title, description, event_date, start_time, end_time,
		max_participants, registered_count, status, event_type,
		creator_id, curator_id, room_id, external_location,
		is_external_venue, need_approve_candidates, created_at, updated_at`

// clockFromDB trims TIME values like "10:00:00" to the "HH:MM" form the
// domain compares lexically.
func clockFromDB(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var maxNull sql.NullInt64
	var roomNull, externalNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
		&maxNull, &e.RegisteredCount, &e.Status, &e.EventType,
		&e.CreatorID, &e.CuratorID, &roomNull, &externalNull,
		&e.IsExternalVenue, &e.NeedApproveCandidates, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if maxNull.Valid {
		n := int(maxNull.Int64)
		e.MaxParticipants = &n
	}
	if roomNull.Valid {
		e.RoomID = &roomNull.String
	}
	if externalNull.Valid {
		e.ExternalLocation = &externalNull.String
	}
	e.StartTime = clockFromDB(e.StartTime)
	e.EndTime = clockFromDB(e.EndTime)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO events (id, title, description, event_date, start_time, end_time,
			max_participants, registered_count, status, event_type,
			creator_id, curator_id, room_id, external_location,
			is_external_venue, need_approve_candidates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	var maxArg any
	if e.MaxParticipants != nil {
		maxArg = *e.MaxParticipants
	}
	var roomArg, externalArg any
	if e.RoomID != nil {
		roomArg = *e.RoomID
	}
	if e.ExternalLocation != nil {
		externalArg = *e.ExternalLocation
	}
	_, err := r.q.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.EventDate, e.StartTime, e.EndTime,
		maxArg, e.RegisteredCount, e.Status, e.EventType,
		e.CreatorID, e.CuratorID, roomArg, externalArg,
		e.IsExternalVenue, e.NeedApproveCandidates, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	e, err := scanEvent(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	where := []string{}
	args := []any{}
	n := 1
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, *filter.Status)
		n++
	}
	if filter.Date != nil {
		where = append(where, fmt.Sprintf("event_date = $%d", n))
		args = append(args, *filter.Date)
		n++
	}
	if filter.CreatorID != "" {
		where = append(where, fmt.Sprintf("creator_id = $%d", n))
		args = append(args, filter.CreatorID)
		n++
	}
	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY event_date ASC, start_time ASC"
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, updatedAt time.Time) error {
	query := `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) IncrementRegisteredCount(ctx context.Context, id string, delta int) (int, error) {
	query := `
		UPDATE events SET registered_count = registered_count + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING registered_count
	`
	var count int
	err := r.q.QueryRowContext(ctx, query, id, delta).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment registered_count: %w", err)
	}
	return count, nil
}

func (r *eventRepository) ResetRegisteredCount(ctx context.Context, id string) error {
	query := `UPDATE events SET registered_count = 0, updated_at = NOW() WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("reset registered_count: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListRoomConflicts(ctx context.Context, roomID string, date time.Time, start, end, excludeEventID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE room_id = $1
		  AND event_date = $2
		  AND status IN ('pending', 'approved')
		  AND start_time < $4
		  AND $3 < end_time
		  AND ($5 = '' OR id <> $5)
		ORDER BY start_time ASC
	`
	rows, err := r.q.QueryContext(ctx, query, roomID, date, start, end, excludeEventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListElapsedApproved(ctx context.Context, onDate time.Time, atTime string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = 'approved'
		  AND (event_date < $1 OR (event_date = $1 AND end_time <= $2))
		ORDER BY event_date ASC, end_time ASC
	`
	rows, err := r.q.QueryContext(ctx, query, onDate, atTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
