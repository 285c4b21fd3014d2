package jwtmw

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"shopgraph/internal/shared/identity"
)

const bearerPrefix = "Bearer "

// Verifier decodes tokens signed by a Generator sharing the same secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify returns the decoded claims, or nil when the token is malformed,
// expired or signed with another key. A leading "Bearer " is stripped.
// Failures are logged and never returned to the caller.
func (v *Verifier) Verify(raw string) *identity.Claims {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	if tokenStr == "" {
		return nil
	}

	claims, err := v.parse(tokenStr)
	if err != nil {
		slog.Warn("JWT verification failed", "error", err)
		return nil
	}
	return claims
}

func (v *Verifier) parse(tokenStr string) (*identity.Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		// reject anything but HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &identity.Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
