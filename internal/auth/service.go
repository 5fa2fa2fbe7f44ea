// Package auth implements the admin credential issuer and verifier: a
// single configured identity, bcrypt password verification, and HS256
// signed tokens with a bounded lifetime.
package auth

import (
	"errors"

	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned for both unknown-username and
// wrong-password failures so the two cases are indistinguishable to the
// caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Service is the credential issuer. It owns the admin identity and the
// token manager; both are read-only after construction.
type Service struct {
	identity *Identity
	tokens   *TokenManager
	logger   zerolog.Logger
}

func NewService(identity *Identity, tokens *TokenManager, logger zerolog.Logger) *Service {
	return &Service{
		identity: identity,
		tokens:   tokens,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Login verifies the presented pair against the configured identity and
// mints an access credential on success.
func (s *Service) Login(username, password string) (*LoginResult, error) {
	if username != s.identity.Username {
		return nil, ErrInvalidCredentials
	}
	if !s.identity.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(s.identity.Username, RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("admin login")
	return &LoginResult{
		Token: token,
		User:  User{Username: s.identity.Username, Role: RoleAdmin},
	}, nil
}

// Verify delegates to the token manager; exposed on the service so the
// gate depends on one type.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}
