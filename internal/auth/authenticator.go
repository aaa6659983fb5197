// Package auth holds the two credentials dilutionwise understands: signed
// report-download tokens and the operator's admin password.
package auth

// Authenticator verifies a username/password pair.
// This abstraction lets the admin check move to another backend (OIDC, a user
// table) without touching the interceptors that call it.
type Authenticator interface {
	// Authenticate returns nil when the credentials are accepted.
	Authenticate(username, password string) error

	// Enabled reports whether any credential can succeed.
	Enabled() bool
}

var _ Authenticator = (*AdminAuthenticator)(nil)
