package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kavehram/rms-auth/internal/auth"
	"github.com/kavehram/rms-auth/internal/service"
)

// RequireCapability returns middleware that gates a user-management route
// behind the given action. It loads the acting user from the store so the
// decision uses the current role and superuser flag rather than the token
// claim; a promotion or demotion takes effect without waiting for the
// access token to expire. It assumes AccessGuard already ran. The services
// repeat the check with the same action, but enforcing it here keeps
// unauthorized callers away from the route-level response cache.
func RequireCapability(users service.UserStore, action auth.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			u, err := users.GetByID(c.Request().Context(), id.UserID)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if !auth.Can(auth.Role(u.Role), u.IsSuperuser, action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
