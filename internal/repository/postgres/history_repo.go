package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

// historyRepository appends and lists audit records. Deliberately no
// update or delete queries: the audit trail is immutable.
type historyRepository struct {
	q DBTX
}

// NewHistoryRepository returns a HistoryRepository running against q.
func NewHistoryRepository(q DBTX) domain.HistoryRepository {
	return &historyRepository{q: q}
}

func (r *historyRepository) CreateEventEntry(ctx context.Context, entry *domain.EventModerationHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO event_moderation_history (id, event_id, comment, previous_status, new_status, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		entry.ID, entry.EventID, entry.Comment, entry.PreviousStatus, entry.NewStatus, entry.ActorID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event moderation history: %w", err)
	}
	return nil
}

func (r *historyRepository) CreateApplicationEntry(ctx context.Context, entry *domain.ApplicationHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO application_history (id, application_id, comment, previous_status, new_status, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		entry.ID, entry.ApplicationID, entry.Comment, entry.PreviousStatus, entry.NewStatus, entry.ActorID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application history: %w", err)
	}
	return nil
}

func (r *historyRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventModerationHistory, error) {
	query := `
		SELECT id, event_id, comment, previous_status, new_status, actor_id, created_at
		FROM event_moderation_history
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]*domain.EventModerationHistory, 0)
	for rows.Next() {
		e := &domain.EventModerationHistory{}
		if err := rows.Scan(&e.ID, &e.EventID, &e.Comment, &e.PreviousStatus, &e.NewStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *historyRepository) ListByApplicationID(ctx context.Context, applicationID string) ([]*domain.ApplicationHistory, error) {
	query := `
		SELECT id, application_id, comment, previous_status, new_status, actor_id, created_at
		FROM application_history
		WHERE application_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]*domain.ApplicationHistory, 0)
	for rows.Next() {
		e := &domain.ApplicationHistory{}
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.Comment, &e.PreviousStatus, &e.NewStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
