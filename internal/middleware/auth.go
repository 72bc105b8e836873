package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// TokenVerifier resolves a bearer token to the identity it was issued
// for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type identityContextKey struct{}

// IdentityFromContext returns the authenticated identity stored by
// RequireAuth.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(string)
	return identity, ok
}

// RequireAuth rejects requests without a valid bearer token. The
// verified identity is placed on the request context. Missing header,
// malformed token, bad signature and expiry all answer 401 the same
// way.
func RequireAuth(verifier TokenVerifier, logger zerolog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("missing or malformed bearer token")
				unauthorised(w)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
				unauthorised(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func unauthorised(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail": "authentication required"}`))
}
