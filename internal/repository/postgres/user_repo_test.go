package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

var userCols = []string{"id", "login", "password_hash", "salt", "role", "email", "telegram_username", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		email := "alice@example.edu"
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("user-uuid-1", "alice", "hashed", "salt", domain.RoleStudent, email, nil, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewUserRepository(db)
		err = repo.Create(ctx, &domain.User{
			ID:           "user-uuid-1",
			Login:        "alice",
			PasswordHash: "hashed",
			Salt:         "salt",
			Role:         domain.RoleStudent,
			Email:        &email,
			CreatedAt:    now,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate login", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("user-uuid-1", "alice", "hashed", "salt", domain.RoleStudent, nil, nil, now).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewUserRepository(db)
		err = repo.Create(ctx, &domain.User{
			ID:           "user-uuid-1",
			Login:        "alice",
			PasswordHash: "hashed",
			Salt:         "salt",
			Role:         domain.RoleStudent,
			CreatedAt:    now,
		})
		require.ErrorIs(t, err, domain.ErrDuplicateLogin)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByLogin(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("success with null optionals", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE login = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(
				"user-uuid-1", "alice", "hashed", "salt", domain.RoleStudent, nil, nil, now,
			))

		repo := NewUserRepository(db)
		u, err := repo.GetByLogin(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "user-uuid-1", u.ID)
		require.Nil(t, u.Email)
		require.Nil(t, u.TelegramUsername)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE login = \$1`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByLogin(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	email := "alice@example.edu"
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("user-uuid-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			"user-uuid-1", "alice", "hashed", "salt", domain.RoleCurator, email, "alice_tg", now,
		))

	repo := NewUserRepository(db)
	u, err := repo.GetByID(ctx, "user-uuid-1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleCurator, u.Role)
	require.NotNil(t, u.Email)
	require.Equal(t, email, *u.Email)
	require.NotNil(t, u.TelegramUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}
