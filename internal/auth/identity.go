// Package auth authenticates requests and carries the caller's identity.
package auth

import (
	"context"
	"strings"
)

// Identity is the authenticated caller. Only the email is used to resolve
// a teacher profile.
type Identity struct {
	Email string
}

// identityContextKey is the context key for the authenticated identity.
type identityContextKey struct{}

// WithIdentity stores an identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity stored in context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || strings.TrimSpace(id.Email) == "" {
		return Identity{}, false
	}
	return id, true
}
