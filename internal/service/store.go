package service

import (
	"context"

	"github.com/kavehram/rms-auth/internal/model"
)

// UserStore is the persistence contract for user records. The production
// implementation is repository.UserRepo; tests substitute in-memory fakes.
// Implementations signal missing rows with repository.ErrNotFound and
// duplicate emails with repository.ErrEmailExists.
type UserStore interface {
	// Create inserts the user and fills in ID and EmployeeID. Employee
	// identifier allocation must be serialized by the implementation so
	// concurrent registrations never share a number.
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id uint64) error
}

// TokenStore is the persistence contract for the issued-token registry.
type TokenStore interface {
	Insert(ctx context.Context, userID uint64, accessToken, refreshToken string) error
	GetActiveByAccess(ctx context.Context, accessToken string) (model.TokenRecord, error)
	GetActiveByRefresh(ctx context.Context, refreshToken string) (model.TokenRecord, error)
	ReplaceAccess(ctx context.Context, refreshToken, newAccessToken string) error
	RevokeByAccess(ctx context.Context, accessToken string) error
	DeleteAllForUser(ctx context.Context, userID uint64) error
}
