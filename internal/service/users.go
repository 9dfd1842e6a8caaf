package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kavehram/rms-auth/internal/auth"
	"github.com/kavehram/rms-auth/internal/model"
	"github.com/kavehram/rms-auth/internal/repository"
)

// UserAdmin implements the role-gated user-management operations. Every
// method loads the acting user fresh from the store so the superuser flag
// and role reflect the database, not a possibly stale token claim.
type UserAdmin struct {
	Users  UserStore
	Tokens TokenStore
}

func NewUserAdmin(users UserStore, tokens TokenStore) *UserAdmin {
	return &UserAdmin{Users: users, Tokens: tokens}
}

// List returns all users. Admins and superusers only.
func (a *UserAdmin) List(ctx context.Context, actorID uint64) ([]model.User, error) {
	if err := a.authorize(ctx, actorID, auth.ActionListUsers); err != nil {
		return nil, err
	}
	return a.Users.GetAll(ctx)
}

// Promote changes a user's role and superuser flag. The role must be one of
// the closed set.
func (a *UserAdmin) Promote(ctx context.Context, actorID, targetID uint64, role string, isSuperuser bool) (model.User, error) {
	if err := a.authorize(ctx, actorID, auth.ActionPromoteUser); err != nil {
		return model.User{}, err
	}
	newRole, ok := auth.ParseRole(role)
	if !ok {
		return model.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	target, err := a.Users.GetByID(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	target.Role = string(newRole)
	target.IsSuperuser = isSuperuser
	if err := a.Users.Update(ctx, target); err != nil {
		return model.User{}, err
	}
	return target, nil
}

// Delete removes a user and all of their registry rows as one logical unit
// (token rows first, then the user row). Self-deletion and deletion of
// admin/hr accounts are rejected. The removed record is returned so callers
// can publish it.
func (a *UserAdmin) Delete(ctx context.Context, actorID, targetID uint64) (model.User, error) {
	if err := a.authorize(ctx, actorID, auth.ActionDeleteUser); err != nil {
		return model.User{}, err
	}
	if targetID == actorID {
		return model.User{}, fmt.Errorf("%w: cannot delete own account", ErrInvalidInput)
	}
	target, err := a.Users.GetByID(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if auth.Role(target.Role).Protected() {
		return model.User{}, fmt.Errorf("%w: %s accounts cannot be deleted", ErrInvalidInput, target.Role)
	}
	if err := a.Tokens.DeleteAllForUser(ctx, targetID); err != nil {
		return model.User{}, err
	}
	if err := a.Users.Delete(ctx, targetID); err != nil {
		return model.User{}, err
	}
	return target, nil
}

func (a *UserAdmin) authorize(ctx context.Context, actorID uint64, action auth.Action) error {
	actor, err := a.Users.GetByID(ctx, actorID)
	if errors.Is(err, repository.ErrNotFound) {
		// Authenticated but gone from the store; deny rather than 404.
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if !auth.Can(auth.Role(actor.Role), actor.IsSuperuser, action) {
		return ErrForbidden
	}
	return nil
}
