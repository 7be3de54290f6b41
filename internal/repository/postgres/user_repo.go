package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type userRepository struct {
	q DBTX
}

// NewUserRepository returns a UserRepository running against q.
func NewUserRepository(q DBTX) domain.UserRepository {
	return &userRepository{q: q}
}

const userColumns = `id, login, password_hash, salt, role, email, telegram_username, created_at`

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var emailNull, telegramNull sql.NullString
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Salt, &u.Role, &emailNull, &telegramNull, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if emailNull.Valid {
		u.Email = &emailNull.String
	}
	if telegramNull.Valid {
		u.TelegramUsername = &telegramNull.String
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	query := `
		INSERT INTO users (id, login, password_hash, salt, role, email, telegram_username, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var emailArg, telegramArg any
	if user.Email != nil {
		emailArg = *user.Email
	}
	if user.TelegramUsername != nil {
		telegramArg = *user.TelegramUsername
	}
	_, err := r.q.ExecContext(ctx, query,
		user.ID, user.Login, user.PasswordHash, user.Salt, user.Role, emailArg, telegramArg, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateLogin
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1`
	u, err := scanUser(r.q.QueryRowContext(ctx, query, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
