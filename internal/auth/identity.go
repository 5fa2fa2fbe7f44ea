package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost the original deployment used for the admin
// password hash.
const BcryptCost = 12

// Identity is the single administrative principal. It is built once from
// configuration at process start, holds only the bcrypt hash of the
// configured password, and is never persisted.
type Identity struct {
	Username     string
	passwordHash []byte
}

func NewIdentity(username, password string) (*Identity, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("admin identity: username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Identity{Username: username, passwordHash: hash}, nil
}

// VerifyPassword reports whether the presented password matches the stored
// hash. bcrypt's comparison is constant-time with respect to the hash.
func (i *Identity) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(i.passwordHash, []byte(password)) == nil
}
