// Package identity carries the caller identity resolved for each request and
// the guards that protected operations check before touching the store.
package identity

import (
	"context"
	"errors"

	"shopgraph/internal/domain/entity"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a caller but none was resolved.
	ErrNotAuthenticated = errors.New("Not authenticated")

	// ErrNotAuthorized is returned when the caller lacks the admin role.
	ErrNotAuthorized = errors.New("Not authorized")
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Identity is either Anonymous or Authenticated.
type Identity interface {
	isIdentity()
}

// Anonymous is the identity of a request without a usable token.
type Anonymous struct{}

// Authenticated is the identity of a request whose token verified.
type Authenticated struct {
	Claims Claims
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

// FromClaims returns Authenticated for non-nil claims and Anonymous otherwise.
func FromClaims(c *Claims) Identity {
	if c == nil {
		return Anonymous{}
	}
	return Authenticated{Claims: *c}
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, or Anonymous when none was stored.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok && id != nil {
		return id
	}
	return Anonymous{}
}

// RequireAuthenticated returns the caller's claims or ErrNotAuthenticated.
func RequireAuthenticated(id Identity) (Claims, error) {
	switch v := id.(type) {
	case Authenticated:
		return v.Claims, nil
	case Anonymous:
		return Claims{}, ErrNotAuthenticated
	default:
		return Claims{}, ErrNotAuthenticated
	}
}

// RequireAdmin returns the caller's claims when the caller holds the admin role.
// Anonymous callers get ErrNotAuthorized as well, matching the catalog mutations' contract.
func RequireAdmin(id Identity) (Claims, error) {
	switch v := id.(type) {
	case Authenticated:
		if v.Claims.Role != entity.RoleAdmin {
			return Claims{}, ErrNotAuthorized
		}
		return v.Claims, nil
	case Anonymous:
		return Claims{}, ErrNotAuthorized
	default:
		return Claims{}, ErrNotAuthorized
	}
}
