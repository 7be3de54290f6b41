package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Repositories
// run against whichever the Store currently wraps.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements domain.Store and domain.Transactor over PostgreSQL.
type Store struct {
	db *sql.DB
	q  DBTX
}

// NewStore returns a Store running queries directly against db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Users() domain.UserRepository                 { return &userRepository{q: s.q} }
func (s *Store) Rooms() domain.RoomRepository                 { return &roomRepository{q: s.q} }
func (s *Store) Events() domain.EventRepository               { return &eventRepository{q: s.q} }
func (s *Store) Applications() domain.ApplicationRepository   { return &applicationRepository{q: s.q} }
func (s *Store) History() domain.HistoryRepository            { return &historyRepository{q: s.q} }
func (s *Store) Notifications() domain.NotificationRepository { return &notificationRepository{q: s.q} }

// WithinTx runs fn inside one transaction. The Store passed to fn is
// scoped to that transaction; fn returning an error rolls everything back
// and the error is returned unchanged so sentinel checks still work.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, st domain.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx}
	if err := fn(ctx, txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
