package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidvault/backend/internal/auth"
	"github.com/vidvault/backend/internal/logging"
)

// identityCtxKey is an unexported type for the identity context key.
type identityCtxKey struct{}

// WithIdentity stores the verified caller identity on the context.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext retrieves the identity placed by the authenticate middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(auth.Identity)
	return identity, ok
}

// Authenticate verifies the bearer token on every request before handing it to
// next. A missing token is 401; a malformed, foreign-signed, or expired token
// is 400. Verification is a pure signature check and touches no store.
func Authenticate(tokens TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.FromContext(ctx)

			if tokens == nil {
				logger.Error("token manager unavailable")
				respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "authentication services unavailable"})
				return
			}

			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				logger.Warn("missing bearer token", "path", r.URL.Path)
				respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
				return
			}

			// The header value is the token itself; a conventional scheme
			// prefix is tolerated and stripped.
			raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

			identity, err := tokens.Verify(raw)
			if err != nil {
				reason := "invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "token expired"
				}
				logger.Warn("token rejected", "error", err)
				respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": reason})
				return
			}

			ctx = WithIdentity(ctx, identity)
			ctx = logging.WithLogger(ctx, logger.With(slog.String("user_id", identity.UserID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
