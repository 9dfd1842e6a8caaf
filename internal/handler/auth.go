package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kavehram/rms-auth/internal/middleware"
	"github.com/kavehram/rms-auth/internal/model"
	"github.com/kavehram/rms-auth/internal/queue"
	"github.com/kavehram/rms-auth/internal/repository"
	"github.com/kavehram/rms-auth/internal/service"
)

const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
	Sessions *service.Session
	Users    service.UserStore
	Cache    *redis.Client
}

func NewAuthHandler(s *service.Session, users service.UserStore, cache *redis.Client) *AuthHandler {
	return &AuthHandler{Sessions: s, Users: users, Cache: cache}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changePasswordReq struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
type userResp struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		EmployeeID:  u.EmployeeID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

// Register creates an employee account and returns the stored record,
// including the freshly allocated employee identifier.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Sessions.Register(ctx, req.Email, req.FullName, req.Password, req.ConfirmPassword)
	if err != nil {
		return respondErr(c, err, "registration failed")
	}

	// A new account changes the admin listing; drop the cached copy like the
	// promote and delete paths do.
	middleware.InvalidateCache(ctx, h.Cache, UsersCacheKey)

	// Fire-and-forget broker notification; a broker outage never fails the
	// registration itself.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), dbTimeout)
		defer pubCancel()
		if err := queue.PublishUserRegistered(pubCtx, queue.UserRegisteredEvent{
			UserID:       u.ID,
			Email:        u.Email,
			FullName:     u.FullName,
			EmployeeID:   u.EmployeeID,
			RegisteredAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("auth: publish user.registered failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondErr(c, err, "login failed")
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondErr(c, err, "refresh failed")
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return respondErr(c, service.ErrNotFound, "load user failed")
	}
	if err != nil {
		return respondErr(c, err, "load user failed")
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// ChangePassword overwrites the password after checking the old one. Only
// reachable through the access guard.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, old_password and new_password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Sessions.ChangePassword(ctx, req.Email, req.OldPassword, req.NewPassword); err != nil {
		return respondErr(c, err, "change password failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "password changed"})
}

// Logout revokes the access token that authenticated this request. Calling
// it again with the same token still succeeds; revocation is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Sessions.Logout(ctx, id.Token); err != nil {
		return respondErr(c, err, "logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "logged out"})
}
