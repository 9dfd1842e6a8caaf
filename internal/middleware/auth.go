package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kavehram/rms-auth/internal/auth"
	"github.com/kavehram/rms-auth/internal/repository"
	"github.com/kavehram/rms-auth/internal/service"
)

const identityKey = "identity"

// Identity is the verified caller produced by AccessGuard and consumed by
// handlers. Token holds the raw access token so logout can revoke the exact
// credential that authenticated the request.
type Identity struct {
	UserID uint64
	Role   auth.Role
	Token  string
}

// AccessGuard returns an Echo middleware that authenticates a Bearer access
// token. A request passes only when the token decodes under the access
// secret AND its registry row is still active; a token that decodes fine
// but was revoked at logout is rejected. Missing or non-bearer credentials
// are 401, everything after that is 403.
func AccessGuard(codec *auth.Codec, tokens service.TokenStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := codec.DecodeAccess(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}
			uid, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			// Signature and expiry are fine; now the registry decides. A row
			// flipped inactive by logout reads as not found here.
			if _, err := tokens.GetActiveByAccess(c.Request().Context(), raw); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or revoked token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token lookup failed"})
			}

			c.Set(identityKey, Identity{UserID: uid, Role: auth.Role(claims.Role), Token: raw})
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by AccessGuard, if any.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}
