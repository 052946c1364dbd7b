package auth

import (
	"context"

	"github.com/labstack/echo/v4"
)

// IdentityKey is the echo context key holding the caller's *Identity.
const IdentityKey = "identity"

type identityCtxKey struct{}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID    uint
	Role  string
	Email string
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return id, ok && id != nil
}

// IdentityFrom returns the identity attached to an echo request, if any.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(IdentityKey).(*Identity)
	return id, ok && id != nil
}

func setIdentity(c echo.Context, id *Identity) {
	c.Set(IdentityKey, id)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
}
