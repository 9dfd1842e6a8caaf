package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kavehram/rms-auth/internal/auth"
	"github.com/kavehram/rms-auth/internal/model"
	"github.com/kavehram/rms-auth/internal/repository"
)

// TokenPair is the credential pair handed to a client at login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session orchestrates the token lifecycle: registration, login, refresh,
// password change and logout. It owns no state beyond its collaborators.
type Session struct {
	Users  UserStore
	Tokens TokenStore
	Codec  *auth.Codec
}

func NewSession(users UserStore, tokens TokenStore, codec *auth.Codec) *Session {
	return &Session{Users: users, Tokens: tokens, Codec: codec}
}

// Register creates a new employee account. The employee identifier is
// allocated by the store inside the insert transaction. New accounts start
// as active, non-superuser employees.
func (s *Session) Register(ctx context.Context, email, fullName, password, confirmPassword string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}
	if password != confirmPassword {
		return model.User{}, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.Users.Create(ctx, model.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         string(auth.RoleEmployee),
		IsActive:     true,
	})
	if errors.Is(err, repository.ErrEmailExists) {
		return model.User{}, ErrConflict
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login verifies credentials and issues a fresh token pair, recording it in
// the registry. Unknown email, wrong password and a deactivated account all
// return the same ErrUnauthorized.
func (s *Session) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return TokenPair{}, ErrUnauthorized
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !u.IsActive || !auth.VerifyPassword(password, u.PasswordHash) {
		return TokenPair{}, ErrUnauthorized
	}

	access, err := s.Codec.IssueAccess(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Codec.IssueRefresh(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Tokens.Insert(ctx, u.ID, access, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// registry row is updated in place: the refresh token keeps its value and
// the row stays active, so the same refresh token works again until logout.
func (s *Session) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.Codec.DecodeRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	if _, err := s.Tokens.GetActiveByRefresh(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return TokenPair{}, ErrNotFound
	}
	if err != nil {
		return TokenPair{}, err
	}

	access, err := s.Codec.IssueAccess(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Tokens.ReplaceAccess(ctx, refreshToken, access); err != nil {
		// The row was revoked between lookup and update; treat like any
		// other unknown refresh token.
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// ChangePassword overwrites a user's password hash after verifying the old
// password. Callers reach this only through the access guard.
func (s *Session) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(oldPassword, u.PasswordHash) {
		return ErrUnauthorized
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.Users.Update(ctx, u)
}

// Logout revokes the registry row of an access token. Unknown or already
// revoked tokens are a successful no-op, so repeated logouts are harmless.
func (s *Session) Logout(ctx context.Context, accessToken string) error {
	return s.Tokens.RevokeByAccess(ctx, accessToken)
}
