package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kavehram/rms-auth/internal/middleware"
	"github.com/kavehram/rms-auth/internal/queue"
	"github.com/kavehram/rms-auth/internal/service"
)

// UsersCacheKey names the cached admin listing in Redis. The router wires
// the cache middleware with the same key the mutating handlers invalidate.
const UsersCacheKey = "rms-auth:users"

// UserHandler exposes the admin-only user-management endpoints.
type UserHandler struct {
	Admin *service.UserAdmin
	Cache *redis.Client // may be nil; invalidation becomes a no-op
}

func NewUserHandler(admin *service.UserAdmin, cache *redis.Client) *UserHandler {
	return &UserHandler{Admin: admin, Cache: cache}
}

type promoteReq struct {
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
}

// List returns every user. Responses are cached by the route middleware;
// authorization still runs on every request since the guard and the policy
// check sit in front of the cache write.
func (h *UserHandler) List(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Admin.List(ctx, id.UserID)
	if err != nil {
		return respondErr(c, err, "list users failed")
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Promote updates a user's role and superuser flag.
func (h *UserHandler) Promote(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req promoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Admin.Promote(ctx, id.UserID, targetID, req.Role, req.IsSuperuser)
	if err != nil {
		return respondErr(c, err, "update role failed")
	}
	middleware.InvalidateCache(ctx, h.Cache, UsersCacheKey)
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Delete removes a user and their token history.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	deleted, err := h.Admin.Delete(ctx, id.UserID, targetID)
	if err != nil {
		return respondErr(c, err, "delete user failed")
	}
	middleware.InvalidateCache(ctx, h.Cache, UsersCacheKey)

	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), dbTimeout)
		defer pubCancel()
		if err := queue.PublishUserDeleted(pubCtx, queue.UserDeletedEvent{
			UserID:    deleted.ID,
			Email:     deleted.Email,
			DeletedBy: id.UserID,
			DeletedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("users: publish user.deleted failed: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{"status": "user deleted"})
}
