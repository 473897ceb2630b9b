// Package identity provides bearer-token verification.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// ErrInvalidToken is returned when a token fails verification for any reason.
var ErrInvalidToken = errors.New("invalid authentication token")

// Verifier turns a raw bearer token into a Principal. Token issuance is an
// external concern; the service only consumes verified identities.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Principal, error)
}

// JWTVerifier verifies HMAC-signed JWTs. The subject claim carries the user
// id; subjects starting with the anonymous prefix are trial sessions.
type JWTVerifier struct {
	secret          []byte
	anonymousPrefix string
}

// NewJWTVerifier creates a verifier for the given signing secret.
func NewJWTVerifier(secret, anonymousPrefix string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTVerifier{
		secret:          []byte(secret),
		anonymousPrefix: anonymousPrefix,
	}, nil
}

// Verify parses and validates the token and extracts the principal.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, ErrInvalidToken
	}

	subject := subjectFromClaims(claims)
	if subject == "" {
		return models.Principal{}, fmt.Errorf("%w: user id not found in token", ErrInvalidToken)
	}

	if strings.HasPrefix(subject, v.anonymousPrefix) {
		return models.NewAnonymous(subject), nil
	}
	return models.NewAuthenticated(subject), nil
}

// subjectFromClaims accepts the standard "sub" claim plus the legacy
// "user_id" and "session_id" claims used by the original token issuer.
func subjectFromClaims(claims jwt.MapClaims) string {
	for _, claim := range []string{"sub", "user_id", "session_id"} {
		if value, ok := claims[claim].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
