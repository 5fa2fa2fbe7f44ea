package auth

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()

	identity, err := NewIdentity("admin", "csquare2024")
	require.NoError(t, err)
	return NewService(identity, NewTokenManager("test-secret", time.Hour), zerolog.Nop())
}

func TestLoginSuccess(t *testing.T) {
	svc := testService(t)

	result, err := svc.Login("admin", "csquare2024")

	require.NoError(t, err)
	require.Equal(t, "admin", result.User.Username)
	require.Equal(t, RoleAdmin, result.User.Role)

	claims, err := svc.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Subject)
	require.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := testService(t)

	_, err := svc.Login("admin", "wrong")

	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUsername(t *testing.T) {
	svc := testService(t)

	_, unknownErr := svc.Login("intruder", "csquare2024")
	_, wrongPassErr := svc.Login("admin", "wrong")

	// Unknown username and wrong password are the same failure.
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.Equal(t, wrongPassErr.Error(), unknownErr.Error())
}

func TestNewIdentityRejectsEmpty(t *testing.T) {
	_, err := NewIdentity("", "password")
	require.Error(t, err)

	_, err = NewIdentity("admin", "")
	require.Error(t, err)
}
