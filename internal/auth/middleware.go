package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
)

// TokenValidator is implemented by *jwt.Manager.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

type claimsKey struct{}

// WithClaims stores verified claims on the context.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// AuthMiddleware validates JWT tokens and injects user claims into request context.
// Browsers cannot set headers on a WebSocket upgrade, so a `token` query
// parameter is accepted as well.
func AuthMiddleware(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
					return
				}
				token = parts[1]
			}
			if token == "" {
				next.ServeHTTP(w, r) // RequireAuth decides
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				code := httperrors.ErrCodeInvalidToken
				if err == jwt.ErrExpiredToken {
					code = httperrors.ErrCodeTokenExpired
				}
				httperrors.RespondUnauthorized(w, code, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAuth ensures the request is authenticated.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
