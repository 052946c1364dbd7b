package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/model"
)

const (
	claimsKey     = "token_claims"
	tokenErrorKey = "token_error"

	msgNotLoggedIn  = "You are not logged in! Please log in to get access."
	msgInvalidToken = "Invalid token. Please log in again!"
	msgExpiredToken = "Your token has expired! Please log in again."
	msgUserGone     = "The user belonging to this token no longer exists."
	msgForbidden    = "You do not have permission to perform this action"
)

// UserFinder resolves a token subject to a live user.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Authenticator gates protected routes: one signature check and one user
// lookup per request, no caching.
type Authenticator struct {
	tokens *TokenService
	users  UserFinder
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(tokens *TokenService, users UserFinder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Middleware extracts the bearer token, verifies it and attaches the caller's Identity.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  claimsKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := a.tokens.Verify(auth)
			if err != nil {
				c.Set(tokenErrorKey, err)
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			tokenErr, _ := c.Get(tokenErrorKey).(error)
			switch {
			case tokenErr == nil:
				return apperrors.Unauthorized(msgNotLoggedIn)
			case errors.Is(tokenErr, ErrTokenExpired):
				return apperrors.Unauthorized(msgExpiredToken)
			default:
				return apperrors.Unauthorized(msgInvalidToken)
			}
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(a.resolve(next))
	}
}

func (a *Authenticator) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsKey).(*Claims)
		if !ok {
			return apperrors.Unauthorized(msgInvalidToken)
		}
		userID, err := claims.UserID()
		if err != nil {
			return apperrors.Unauthorized(msgInvalidToken)
		}

		user, err := a.users.FindByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Unauthorized(msgUserGone)
			}
			return apperrors.Internal(err)
		}

		setIdentity(c, &Identity{ID: user.ID, Role: user.UserType, Email: user.Email})
		return next(c)
	}
}

// RestrictTo rejects callers whose role is not in roles with 403. It must run
// after the Authenticator.
func RestrictTo(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return apperrors.Unauthorized(msgNotLoggedIn)
			}
			if _, ok := allowed[id.Role]; !ok {
				return apperrors.Forbidden(msgForbidden)
			}
			return next(c)
		}
	}
}
