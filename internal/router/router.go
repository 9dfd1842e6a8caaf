package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kavehram/rms-auth/internal/auth"
	"github.com/kavehram/rms-auth/internal/handler"
	"github.com/kavehram/rms-auth/internal/middleware"
	"github.com/kavehram/rms-auth/internal/service"
)

// usersCacheTTL bounds how stale the cached admin listing may get between
// mutations coming from outside this process.
const usersCacheTTL = 30 * time.Second

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session and user-management routes.
// Unauthenticated operations live under /v1/auth; everything under /v1
// passes the access guard (token signature + registry check), and the
// /v1/users subtree additionally requires an admin or superuser actor.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler,
	codec *auth.Codec, tokens service.TokenStore, users service.UserStore, rdb *redis.Client) {

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	prot := e.Group("/v1")
	prot.Use(middleware.AccessGuard(codec, tokens))
	prot.GET("/me", a.Me)
	prot.POST("/change-password", a.ChangePassword)
	prot.POST("/logout", a.Logout)

	// Each route is gated by its own capability, and the gate runs before
	// the cache so a cached listing can never be served to a non-admin
	// holding a valid token.
	admin := prot.Group("/users")
	admin.GET("", u.List,
		middleware.RequireCapability(users, auth.ActionListUsers),
		middleware.CacheJSON(rdb, handler.UsersCacheKey, usersCacheTTL))
	admin.PATCH("/:id/role", u.Promote,
		middleware.RequireCapability(users, auth.ActionPromoteUser))
	admin.DELETE("/:id", u.Delete,
		middleware.RequireCapability(users, auth.ActionDeleteUser))
}
