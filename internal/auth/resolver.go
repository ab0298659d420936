package auth

import (
	"context"
	"net/http"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/ctxlog"
)

// TokenHeader carries the session token. Header lookup is case-insensitive.
const TokenHeader = "x-jwt"

// CredentialStore looks up the account a token refers to.
type CredentialStore interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// TokenVerifier is satisfied by *TokenCodec.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// IdentityResolver attaches the token holder to the request context. It never
// rejects a request; callers without a usable token continue anonymously.
type IdentityResolver struct {
	tokens TokenVerifier
	store  CredentialStore
}

// NewIdentityResolver creates a resolver.
func NewIdentityResolver(tokens TokenVerifier, store CredentialStore) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, store: store}
}

// Resolve returns the user for token, or nil when it cannot be resolved.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) *domain.User {
	if token == "" {
		return nil
	}

	logger := ctxlog.FromContext(ctx)

	id, err := r.tokens.Verify(token)
	if err != nil {
		logger.Debug("token rejected", "error", err)
		return nil
	}

	user, err := r.store.GetUserByID(ctx, id)
	if err != nil {
		logger.Debug("token subject not resolved", "user_id", id, "error", err)
		return nil
	}
	return user
}

// Middleware runs Resolve for every request.
func (r *IdentityResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if user := r.Resolve(req.Context(), req.Header.Get(TokenHeader)); user != nil {
			ctx := ctxlog.With(WithIdentity(req.Context(), user), "user_id", user.ID)
			req = req.WithContext(ctx)
		}
		next.ServeHTTP(w, req)
	})
}
