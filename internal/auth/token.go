package auth

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// ErrInvalidToken is returned for any token verification failure.
// Malformed tokens, bad signatures and expired tokens all collapse to
// this one error; the distinction goes to logs only.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims defines the JWT payload. Subject carries the user email.
type Claims struct {
	jwtlib.RegisteredClaims
}

// Tokens issues and verifies signed bearer tokens with a fixed TTL.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewTokens creates a token issuer/verifier.
func NewTokens(secret, issuer string, ttl time.Duration, logger zerolog.Logger) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		logger: logger.With().Str("component", "tokens").Logger(),
	}
}

// Issue signs a token for the given subject expiring after the
// configured TTL.
func (t *Tokens) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    t.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature and expiry of a token and returns the
// subject it was issued for.
func (t *Tokens) Verify(token string) (string, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(tok *jwtlib.Token) (interface{}, error) {
		return t.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}))
	if err != nil {
		t.logger.Debug().Err(err).Msg("token verification failed")
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		t.logger.Debug().Msg("token claims invalid")
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
