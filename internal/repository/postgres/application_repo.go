package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type applicationRepository struct {
	q DBTX
}

// NewApplicationRepository returns an ApplicationRepository running against q.
func NewApplicationRepository(q DBTX) domain.ApplicationRepository {
	return &applicationRepository{q: q}
}

const applicationColumns = `id, event_id, applicant_id, status, motivation, created_at, updated_at`

func scanApplication(row rowScanner) (*domain.EventApplication, error) {
	a := &domain.EventApplication{}
	err := row.Scan(&a.ID, &a.EventID, &a.ApplicantID, &a.Status, &a.Motivation, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.EventApplication) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	query := `
		INSERT INTO event_applications (id, event_id, applicant_id, status, motivation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		app.ID, app.EventID, app.ApplicantID, app.Status, app.Motivation, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE id = $1`
	app, err := scanApplication(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE id = $1 FOR UPDATE`
	app, err := scanApplication(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) GetActiveByEventAndApplicant(ctx context.Context, eventID, applicantID string) (*domain.EventApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM event_applications
		WHERE event_id = $1 AND applicant_id = $2 AND status <> 'withdrawn'
	`
	app, err := scanApplication(r.q.QueryRowContext(ctx, query, eventID, applicantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE event_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *applicationRepository) ListByApplicantID(ctx context.Context, applicantID string) ([]*domain.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE applicant_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, applicantID)
}

func (r *applicationRepository) ListByEventAndStatus(ctx context.Context, eventID string, status domain.ApplicationStatus) ([]*domain.EventApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM event_applications WHERE event_id = $1 AND status = $2 ORDER BY created_at ASC`
	return r.list(ctx, query, eventID, status)
}

func (r *applicationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.EventApplication, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps := make([]*domain.EventApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, updatedAt time.Time) error {
	query := `UPDATE event_applications SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
