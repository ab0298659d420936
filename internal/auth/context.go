package auth

import (
	"context"

	"github.com/tablebell/restaurant-api/internal/domain"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying user as the request identity.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFromContext returns the identity attached by the resolver, or nil
// for anonymous requests.
func IdentityFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(identityKey{}).(*domain.User)
	return user
}
