package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/money-tracker-api/internal/domain"
	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier turns a bearer token into the identity it attests.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// Auth returns middleware that validates the Bearer ID token and injects the
// caller's identity into the context. Every rejection gets the same 401 body.
func Auth(verifier TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				log.Debug("auth rejected", zap.String("reason", "missing bearer token"), zap.String("path", r.URL.Path))
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ident, err := verifier.Verify(strings.TrimSpace(tokenStr))
			if err != nil {
				log.Debug("auth rejected", zap.Error(err), zap.String("path", r.URL.Path))
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying ident.
func WithIdentity(ctx context.Context, ident *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext extracts the verified caller from the request context.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*domain.Identity)
	return ident, ok && ident != nil
}
