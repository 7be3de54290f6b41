package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret")

	token, err := m.Issue("user-123", domain.RoleCurator, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", actor.UserID)
	assert.Equal(t, domain.RoleCurator, actor.Role)
}

func TestJWTManager_Verify_expired(t *testing.T) {
	m := NewJWTManager("test-secret")

	token, err := m.Issue("user-123", domain.RoleStudent, -time.Minute)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestJWTManager_Verify_wrong_secret(t *testing.T) {
	token, err := NewJWTManager("secret-a").Issue("user-123", domain.RoleStudent, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b").Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestJWTManager_Verify_rejects_unknown_roles(t *testing.T) {
	m := NewJWTManager("test-secret")

	for _, role := range []string{"system", "superuser", ""} {
		now := time.Now()
		claims := jwtClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Role: role,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "role %q must be rejected", role)
	}
}

func TestJWTManager_Verify_rejects_none_alg(t *testing.T) {
	m := NewJWTManager("test-secret")

	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		Role:             string(domain.RoleAdmin),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
