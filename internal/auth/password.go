package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin access is not configured")
	ErrWeakPassword       = errors.New("password must be at least 12 characters")
)

// AdminAuthenticator checks the operator password against a bcrypt hash.
type AdminAuthenticator struct {
	username string
	hash     []byte
}

// NewAdminAuthenticator creates an authenticator for username. An empty hash
// disables admin access; a malformed one is rejected.
func NewAdminAuthenticator(username, passwordHash string) (*AdminAuthenticator, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
	}
	return &AdminAuthenticator{
		username: username,
		hash:     []byte(passwordHash),
	}, nil
}

// Enabled reports whether a password hash is configured.
func (a *AdminAuthenticator) Enabled() bool {
	return len(a.hash) > 0
}

// Authenticate verifies the username and password.
func (a *AdminAuthenticator) Authenticate(username, password string) error {
	if !a.Enabled() {
		return ErrAdminDisabled
	}
	if username != a.username {
		// Compare anyway so timing does not depend on the username.
		_ = bcrypt.CompareHashAndPassword(a.hash, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for the admin.password_hash setting.
func HashPassword(password string) (string, error) {
	if len(password) < 12 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
