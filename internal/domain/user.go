package domain

import (
	"context"
	"time"
)

// Role is the authorization role attached to a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleCurator Role = "curator"
	RoleAdmin   Role = "admin"
	// RoleSystem is a pseudo-role used by the completion sweep; it is never
	// stored on a user or issued in a token.
	RoleSystem Role = "system"
)

// Actor identifies the caller of an engine operation.
type Actor struct {
	UserID string
	Role   Role
}

// SystemActor is the actor used for system-initiated transitions.
var SystemActor = Actor{UserID: "system", Role: RoleSystem}

// User represents an authenticated account.
// swagger:model User
type User struct {
	ID               string    `json:"id"`
	Login            string    `json:"login"`
	PasswordHash     string    `json:"-"`
	Salt             string    `json:"-"`
	Role             Role      `json:"role"`
	Email            *string   `json:"email,omitempty"`
	TelegramUsername *string   `json:"telegram_username,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UserRepository defines storage operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (string, error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed access tokens carrying the actor's role.
type TokenIssuer interface {
	Issue(userID string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier validates an access token and returns the actor it encodes.
type TokenVerifier interface {
	Verify(token string) (Actor, error)
}

// UserService defines registration and login.
type UserService interface {
	Register(ctx context.Context, login, password string, email, telegramUsername *string) (*User, error)
	Login(ctx context.Context, login, password string) (string, *User, error)
}
