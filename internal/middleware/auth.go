package middleware

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/dilutionwise/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// AdminKey is the context key for the authenticated admin username.
const AdminKey contextKey = "admin"

// principal carries the authenticated admin back out to interceptors
// wrapping RequireAdmin, which never see the context it derives.
type principal struct {
	admin string
}

const principalKey contextKey = "principal"

func withPrincipal(ctx context.Context) (context.Context, *principal) {
	p := &principal{}
	return context.WithValue(ctx, principalKey, p), p
}

var errMissingCredentials = errors.New("basic authorization required")

// GetAdmin extracts the admin username from the context.
// Returns empty string if not found.
func GetAdmin(ctx context.Context) string {
	admin, _ := ctx.Value(AdminKey).(string)
	return admin
}

// RequireAdmin returns an interceptor that checks HTTP Basic credentials
// and adds the admin username to the request context.
func RequireAdmin(authenticator auth.Authenticator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !authenticator.Enabled() {
				return nil, connect.NewError(connect.CodePermissionDenied, auth.ErrAdminDisabled)
			}

			// Reuse net/http's header parsing for the Basic scheme.
			username, password, ok := (&http.Request{Header: req.Header()}).BasicAuth()
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, errMissingCredentials)
			}

			if err := authenticator.Authenticate(username, password); err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
			}

			if p, ok := ctx.Value(principalKey).(*principal); ok {
				p.admin = username
			}
			ctx = context.WithValue(ctx, AdminKey, username)
			return next(ctx, req)
		}
	}
}
